// Package mcp provides an MCP (Model Context Protocol) server adapter
// for regnav. It lets AI assistants retrieve regulatory evidence and
// resolve cross-references against the local index.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
