package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MilestoneTitleLength is how many characters of a milestone description
// become its title when none is given
const MilestoneTitleLength = 50

type Milestone struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Notes       string    `json:"notes"`
	DueDate     Timestamp `json:"dueDate,omitempty"`
}

// LearningPlan keeps the API's "isPublic" flag on the wire and exposes it
// as Public. Posts use the opposite polarity, see Post.
type LearningPlan struct {
	ID                int64       `json:"id,omitempty"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Public            bool        `json:"isPublic"`
	Milestones        []Milestone `json:"milestones"`
	LearningMaterials []string    `json:"learningMaterials"`
	CreatedAt         Timestamp   `json:"createdAt,omitempty"`
	UpdatedAt         Timestamp   `json:"updatedAt,omitempty"`
	Owner             *PlanOwner  `json:"user,omitempty"`
}

type PlanOwner struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Completed reports whether every milestone is done. A plan without
// milestones is never complete.
func (p *LearningPlan) Completed() bool {
	if len(p.Milestones) == 0 {
		return false
	}
	for _, m := range p.Milestones {
		if !m.Completed {
			return false
		}
	}
	return true
}

// PlanRequest is the body of plan create and update calls
type PlanRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Public      bool        `json:"isPublic"`
	Milestones  []Milestone `json:"milestones"`
}

// NewMilestone builds an open milestone titled after its description
func NewMilestone(description string) Milestone {
	return Milestone{
		Title:       MilestoneTitle(description),
		Description: description,
		Completed:   false,
		Notes:       "",
	}
}

// MilestoneTitle returns the first MilestoneTitleLength characters of description
func MilestoneTitle(description string) string {
	if utf8.RuneCountInString(description) <= MilestoneTitleLength {
		return description
	}
	return string([]rune(description)[:MilestoneTitleLength])
}

// ToRequest converts an edited plan into an update body, filling in
// missing milestone titles
func (p *LearningPlan) ToRequest() PlanRequest {
	milestones := make([]Milestone, len(p.Milestones))
	for i, m := range p.Milestones {
		if m.Title == "" {
			m.Title = MilestoneTitle(m.Description)
		}
		milestones[i] = m
	}
	return PlanRequest{
		Title:       p.Title,
		Description: p.Description,
		Public:      p.Public,
		Milestones:  milestones,
	}
}

// Reminder is the flattened reminder the API returns from /reminders
type Reminder struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	DueDate   Timestamp `json:"dueDate"`
	CreatedAt Timestamp `json:"createdAt"`
	Completed bool      `json:"completed"`
	PlanID    int64     `json:"planId"`
	PlanTitle string    `json:"planTitle"`
}

// Material is a downloaded learning material
type Material struct {
	Filename    string
	DisplayName string
	ContentType string
	Size        int64
}

type StatusUpdate struct {
	Completed bool `json:"completed"`
}

// MaterialDisplayName strips the upload prefix the API adds to stored
// material names ("1712345678_notes.pdf" becomes "notes.pdf")
func MaterialDisplayName(filename string) string {
	if i := strings.IndexByte(filename, '_'); i >= 0 && i < len(filename)-1 {
		return filename[i+1:]
	}
	return filename
}

// FallbackMaterialName names a download whose response carried no filename
func FallbackMaterialName(index int) string {
	return fmt.Sprintf("material_%d", index+1)
}
