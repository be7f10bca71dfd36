package domain

import "fmt"

// Volume identifies one of the three source volumes of the corpus.
type Volume string

// The corpus volumes. The set is fixed; the corpus is rebuilt wholesale,
// never extended with new volumes at runtime.
const (
	VolumeI   Volume = "I"
	VolumeII  Volume = "II"
	VolumeIII Volume = "III"
)

// DocumentType classifies a volume by the kind of material it contains.
// It drives priority-level derivation during extraction.
type DocumentType string

// Known document types.
const (
	TypeRegulation DocumentType = "regulation"
	TypeAction     DocumentType = "action"
	TypeRisk       DocumentType = "risk"
)

// VolumeInfo holds the static metadata for one volume.
type VolumeInfo struct {
	// Title is the official publication title.
	Title string

	// Type classifies the volume content.
	Type DocumentType
}

// Volumes is the static catalogue of corpus volumes.
var Volumes = map[Volume]VolumeInfo{
	VolumeI: {
		Title: "Easy Access Rules for Standardisation (Regulations)",
		Type:  TypeRegulation,
	},
	VolumeII: {
		Title: "European Plan for Aviation Safety - Actions",
		Type:  TypeAction,
	},
	VolumeIII: {
		Title: "European Plan for Aviation Safety - Safety Risk Portfolio",
		Type:  TypeRisk,
	},
}

// ParseVolume validates a volume identifier string.
func ParseVolume(s string) (Volume, error) {
	v := Volume(s)
	if _, ok := Volumes[v]; !ok {
		return "", fmt.Errorf("%w: volume %q (must be I, II or III)", ErrInvalidInput, s)
	}
	return v, nil
}

// PriorityLevel is a coarse classification tag derived from chunk text
// in the action and risk volumes.
type PriorityLevel string

// Priority levels. Empty means no priority was detected.
const (
	PriorityStrategic   PriorityLevel = "strategic"
	PriorityOperational PriorityLevel = "operational"
	PriorityNone        PriorityLevel = ""
)
