package domain

import (
	"strings"
	"time"
)

const (
	minProjectNameLen        = 3
	minProjectDescriptionLen = 10
	minMoodBoardNameLen      = 3
)

// NewProjectInput carries the caller-supplied fields of a new project.
type NewProjectInput struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	ClientName  string        `json:"clientName" yaml:"clientName"`
	Type        ProjectType   `json:"type" yaml:"type"`
	Status      ProjectStatus `json:"status" yaml:"status"`
	DueDate     string        `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypePhotography, ProjectTypeDesign, ProjectTypeHybrid:
		return true
	}
	return false
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// NewProject validates in and returns a project stamped with a fresh id,
// createdAt and the default cover image. Type defaults to Photography and
// status to Planning.
func NewProject(in NewProjectInput, coverImage string, createdAt time.Time) (*Project, error) {
	name := strings.TrimSpace(in.Name)
	if len(name) < minProjectNameLen {
		return nil, validationf("project name must be at least %d characters", minProjectNameLen)
	}
	description := strings.TrimSpace(in.Description)
	if len(description) < minProjectDescriptionLen {
		return nil, validationf("description must be at least %d characters", minProjectDescriptionLen)
	}
	clientName := strings.TrimSpace(in.ClientName)
	if clientName == "" {
		return nil, validationf("client name is required")
	}

	projectType := in.Type
	if projectType == "" {
		projectType = ProjectTypePhotography
	}
	if !projectType.Valid() {
		return nil, validationf("unknown project type %q", in.Type)
	}
	status := in.Status
	if status == "" {
		status = ProjectPlanning
	}
	if !status.Valid() {
		return nil, validationf("unknown project status %q", in.Status)
	}

	dueDate, err := ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	return &Project{
		ID:          NewProjectID(),
		Name:        name,
		Description: description,
		ClientName:  clientName,
		Type:        projectType,
		Status:      status,
		DueDate:     dueDate,
		CreatedAt:   createdAt,
		CoverImage:  coverImage,
		Proofs:      []*Proof{},
	}, nil
}

// ParseDueDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
// An empty string means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, validationf("invalid due date %q", s)
	}
	return &t, nil
}

// NewMoodBoard validates the board name and returns an empty board.
func NewMoodBoard(name, description, coverImage string, createdAt time.Time) (*MoodBoard, error) {
	name = strings.TrimSpace(name)
	if len(name) < minMoodBoardNameLen {
		return nil, validationf("mood board name must be at least %d characters", minMoodBoardNameLen)
	}
	return &MoodBoard{
		ID:          NewMoodBoardID(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   createdAt,
		CoverImage:  coverImage,
		Images:      []*MoodBoardImage{},
	}, nil
}
