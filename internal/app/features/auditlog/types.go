// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/jjprojectslab/comunify/internal/app/store/audit"
)

type eventView struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	Category         string            `json:"category"`
	EventType        string            `json:"event_type"`
	Success          bool              `json:"success"`
	FailureReason    string            `json:"failure_reason,omitempty"`
	IP               string            `json:"ip,omitempty"`
	UserID           string            `json:"user_id,omitempty"`
	UserName         string            `json:"user_name,omitempty"`
	ActorID          string            `json:"actor_id,omitempty"`
	ActorName        string            `json:"actor_name,omitempty"`
	OrganizationID   string            `json:"organization_id,omitempty"`
	OrganizationName string            `json:"organization_name,omitempty"`
	Details          map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events []eventView `json:"events"`
	Total  int64       `json:"total"`
}

var validCategories = map[string]bool{
	audit.CategoryAuth:  true,
	audit.CategoryAdmin: true,
}
