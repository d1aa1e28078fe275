package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryGeneral   = "General"
	CategoryPlacement = "Placement"
	CategoryExam      = "Exam"
	CategoryEvent     = "Event"
	CategoryOther     = "Other"
)

var Categories = []string{CategoryGeneral, CategoryPlacement, CategoryExam, CategoryEvent, CategoryOther}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Notice struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PostedBy    string    `json:"postedBy"`
	ImageURL    *string   `json:"imageUrl"`
	IsNew       bool      `json:"isNew"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NoticeView is a Notice projected for a particular viewer. IsNewForUser is
// nil for anonymous requests so the field is absent from the JSON entirely,
// never a misleading false.
type NoticeView struct {
	Notice
	IsNewForUser *bool `json:"isNewForUser,omitempty"`
}

// NoticeDelivery is broadcast to every open websocket connection; notices are
// campus-wide, so deliveries are not targeted at a receiver.
type NoticeDelivery struct {
	Type     string
	NoticeID string
	Title    string
	Category string
}
