package domain

import "time"

type ProjectType string

const (
	ProjectTypePhotography ProjectType = "Photography"
	ProjectTypeDesign      ProjectType = "Design"
	ProjectTypeHybrid      ProjectType = "Hybrid"
)

type ProjectStatus string

const (
	ProjectPlanning         ProjectStatus = "Planning"
	ProjectInProgress       ProjectStatus = "In Progress"
	ProjectAwaitingFeedback ProjectStatus = "Awaiting Feedback"
	ProjectRevisions        ProjectStatus = "Revisions"
	ProjectCompleted        ProjectStatus = "Completed"
	ProjectOnHold           ProjectStatus = "On Hold"
)

// ProjectStatuses lists every project status in display order.
var ProjectStatuses = []ProjectStatus{
	ProjectPlanning,
	ProjectInProgress,
	ProjectAwaitingFeedback,
	ProjectRevisions,
	ProjectCompleted,
	ProjectOnHold,
}

type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ClientName  string        `json:"clientName"`
	Type        ProjectType   `json:"type"`
	Status      ProjectStatus `json:"status"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	CoverImage  string        `json:"coverImage,omitempty"`
	Proofs      []*Proof      `json:"proofs"`
}

type Proof struct {
	ID         string      `json:"id"`
	FileName   string      `json:"fileName"`
	FileURL    string      `json:"fileUrl"`
	UploadedAt time.Time   `json:"uploadedAt"`
	Status     ProofStatus `json:"status"`
	Feedback   []*Feedback `json:"feedback"`
}

type Feedback struct {
	ID            string    `json:"id"`
	Comment       string    `json:"comment"`
	CommenterName string    `json:"commenterName"`
	CreatedAt     time.Time `json:"createdAt"`
}

type MoodBoard struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	CoverImage  string            `json:"coverImage,omitempty"`
	Images      []*MoodBoardImage `json:"images"`
}

type MoodBoardImage struct {
	ID      string    `json:"id"`
	URL     string    `json:"url"`
	AltText string    `json:"altText,omitempty"`
	AddedAt time.Time `json:"addedAt"`
	Notes   string    `json:"notes,omitempty"`
	// StorageKey names the media blob this board stored for an upload. It is
	// empty for URL images, whatever the URL points at.
	StorageKey string `json:"-"`
}
