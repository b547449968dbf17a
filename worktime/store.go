package worktime

import (
	"context"
	"time"
)

// ProjectRoleStore persists project roles.
type ProjectRoleStore interface {
	SaveProjectRole(ctx context.Context, r ProjectRole) error
	GetProjectRole(ctx context.Context, id string) (*ProjectRole, error)
}

// ActivityStore persists activities.
type ActivityStore interface {
	SaveActivity(ctx context.Context, a Activity) error
	DeleteActivity(ctx context.Context, id string) error

	// FindActivities returns the user's activities that overlap
	// [from, to), ordered by start.
	FindActivities(ctx context.Context, userID string, from, to time.Time) ([]Activity, error)

	// FindActivitiesByRole is FindActivities restricted to one role.
	FindActivitiesByRole(ctx context.Context, userID, roleID string, from, to time.Time) ([]Activity, error)
}
