package project

import "time"

// ArtifactKind classifies a project artifact.
type ArtifactKind string

const (
	ArtifactReport ArtifactKind = "report"
	ArtifactFigure ArtifactKind = "figure"
)

// Artifact holds metadata for a report or figure attached to a project.
type Artifact struct {
	ID          string       `json:"id"`
	Kind        ArtifactKind `json:"kind"`
	Path        string       `json:"path"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Dataset     string       `json:"dataset,omitempty"`
	Size        int64        `json:"size"`
	AddedAt     time.Time    `json:"added_at"`
}
