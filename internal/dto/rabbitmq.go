package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQNoticePosted struct {
	NoticeID  uuid.UUID `json:"notice_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	PostedBy  string    `json:"posted_by"`
	CreatedAt time.Time `json:"created_at"`
}

type MQNoticeArchived struct {
	NoticeID uuid.UUID `json:"notice_id"`
	Archived bool      `json:"archived"`
}
