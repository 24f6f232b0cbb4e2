package service

import (
	"context"
	"time"

	"sigrap/internal/model"
	"sigrap/internal/repository"
)

type ActivityLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name,omitempty"`
	Details    string `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ActivityService exposes the audit trail of critical system changes
type ActivityService interface {
	ListActivity(ctx context.Context, page, limit int, action string) ([]ActivityLogResponse, int64, error)
}

type activityService struct {
	repo repository.ActivityRepository
}

// NewActivityService returns a new instance of ActivityService
func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func mapToActivityResponse(entry *model.ActivityLog) *ActivityLogResponse {
	resp := &ActivityLogResponse{
		ID:         entry.ID.String(),
		Action:     entry.Action,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.UserID != nil {
		resp.UserID = entry.UserID.String()
	}
	if entry.User != nil {
		resp.Username = entry.User.Username
	}
	return resp
}

func (s *activityService) ListActivity(ctx context.Context, page, limit int, action string) ([]ActivityLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	logs, total, err := s.repo.List(ctx, page, limit, action)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ActivityLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, *mapToActivityResponse(&logs[i]))
	}
	return responses, total, nil
}
