package domain

import "github.com/google/uuid"

const (
	projectIDPrefix   = "proj"
	proofIDPrefix     = "proof"
	feedbackIDPrefix  = "fb"
	moodBoardIDPrefix = "mood"
	imageIDPrefix     = "img"
)

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func NewProjectID() string   { return newID(projectIDPrefix) }
func NewProofID() string     { return newID(proofIDPrefix) }
func NewFeedbackID() string  { return newID(feedbackIDPrefix) }
func NewMoodBoardID() string { return newID(moodBoardIDPrefix) }
func NewImageID() string     { return newID(imageIDPrefix) }
