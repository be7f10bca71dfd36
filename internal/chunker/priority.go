package chunker

import (
	"strings"

	"github.com/avsafe-labs/regnav/internal/core/domain"
)

// Priority keyword lists for the action and risk volumes.
// Strategic keywords win over operational when both appear.
var (
	strategicKeywords = []string{
		"strategic priority",
		"strategic objective",
		"key safety issue",
		"critical safety",
	}

	operationalKeywords = []string{
		"operational objective",
		"safety action",
		"implementation",
		"mitigation",
	}
)

// detectPriority derives the coarse priority tag for a chunk.
// Regulation text carries no priority; action and risk text is
// classified by keyword detection.
func detectPriority(docType domain.DocumentType, text string) domain.PriorityLevel {
	if docType != domain.TypeAction && docType != domain.TypeRisk {
		return domain.PriorityNone
	}

	lower := strings.ToLower(text)
	for _, kw := range strategicKeywords {
		if strings.Contains(lower, kw) {
			return domain.PriorityStrategic
		}
	}
	for _, kw := range operationalKeywords {
		if strings.Contains(lower, kw) {
			return domain.PriorityOperational
		}
	}
	return domain.PriorityNone
}
