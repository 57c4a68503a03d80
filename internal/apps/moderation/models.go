package moderation

import (
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/google/uuid"
)

type CreateReportRequest struct {
	ContentType string    `json:"content_type"`
	ContentID   uuid.UUID `json:"content_id"`
	Reason      string    `json:"reason"`
}

type ReviewRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type ReportListResponse struct {
	Data   []models.Report `json:"data"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
