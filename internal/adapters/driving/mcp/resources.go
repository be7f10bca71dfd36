package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// uriScheme is the custom URI scheme for regnav resources.
const uriScheme = "regnav://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "volumes",
		Name:        "volumes",
		Description: "The corpus volume catalogue: identifiers, titles and content types",
		MIMEType:    "application/json",
	}, s.handleVolumesResource)
}

// handleVolumesResource returns the static volume catalogue.
func (s *Server) handleVolumesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type volumeInfo struct {
		Volume string `json:"volume"`
		Title  string `json:"title"`
		Type   string `json:"type"`
	}

	infos := make([]volumeInfo, 0, len(domain.Volumes))
	for _, v := range []domain.Volume{domain.VolumeI, domain.VolumeII, domain.VolumeIII} {
		info := domain.Volumes[v]
		infos = append(infos, volumeInfo{
			Volume: string(v),
			Title:  info.Title,
			Type:   string(info.Type),
		})
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling volumes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
