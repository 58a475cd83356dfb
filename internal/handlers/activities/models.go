// internal/handlers/activities/models.go
package activities

import "activity-signup/pkg/registry"

// ListResponse maps activity name to its record.
type ListResponse map[string]registry.Activity

type MessageResponse struct {
	Message string `json:"message"`
}
