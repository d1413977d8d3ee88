package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/edaloom-cli/internal/utils"
	"github.com/google/uuid"
)

const (
	projectFileName = "project.json"
)

// Project represents an EDA project persisted on disk.
type Project struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Artifacts   map[string]*Artifact `json:"artifacts"`
	Config      *ProjectConfig       `json:"config"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// ProjectConfig holds per-project overrides of global settings.
type ProjectConfig struct {
	TargetColumn string `json:"target_column,omitempty"`
	FigureFormat string `json:"figure_format,omitempty"`
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	return &Project{
		Name:        name,
		Description: description,
		Artifacts:   make(map[string]*Artifact),
		// Leave Config fields empty to inherit from global defaults unless explicitly set per project.
		Config:    &ProjectConfig{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		rootDir:   rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if p.Config == nil {
		p.Config = &ProjectConfig{}
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// ArtifactsDir is where commands place outputs attached to the project.
func (p *Project) ArtifactsDir() string { return filepath.Join(p.rootDir, "artifacts") }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// AddArtifact records an existing output file in the project metadata.
// Re-adding the same path replaces the earlier entry.
func (p *Project) AddArtifact(kind ArtifactKind, path, dataset, description string) (*Artifact, error) {
	switch kind {
	case ArtifactReport, ArtifactFigure:
	default:
		return nil, fmt.Errorf("unknown artifact kind %q", kind)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("artifact %s is a directory", path)
	}
	if p.Artifacts == nil {
		p.Artifacts = make(map[string]*Artifact)
	}
	for id, a := range p.Artifacts {
		if a.Path == path {
			delete(p.Artifacts, id)
		}
	}
	a := &Artifact{
		ID:          uuid.NewString(),
		Kind:        kind,
		Path:        path,
		Name:        filepath.Base(path),
		Description: description,
		Dataset:     dataset,
		Size:        info.Size(),
		AddedAt:     info.ModTime(),
	}
	p.Artifacts[a.ID] = a
	p.UpdatedAt = time.Now()
	return a, nil
}

// SortedArtifacts returns artifacts ordered by time added, then name.
func (p *Project) SortedArtifacts() []*Artifact {
	out := make([]*Artifact, 0, len(p.Artifacts))
	for _, a := range p.Artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Summary renders a plain-text index of the project's artifacts.
func (p *Project) Summary() string {
	var sb strings.Builder
	sb.WriteString("[PROJECT]\n")
	sb.WriteString(p.Name)
	if p.Description != "" {
		sb.WriteString(" - ")
		sb.WriteString(p.Description)
	}
	sb.WriteString("\n\n[ARTIFACTS]\n")
	arts := p.SortedArtifacts()
	if len(arts) == 0 {
		sb.WriteString("(none)\n")
		return sb.String()
	}
	for _, a := range arts {
		fmt.Fprintf(&sb, "- %s [%s] %s", a.Name, a.Kind, shortID(a.ID))
		if a.Dataset != "" {
			fmt.Fprintf(&sb, " from %s", filepath.Base(a.Dataset))
		}
		if a.Description != "" {
			fmt.Fprintf(&sb, " (%s)", a.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
