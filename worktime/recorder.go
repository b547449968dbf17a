package worktime

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warp/worktime-engine/generic"
)

// ActivityRecorder creates and updates activities. It owns the
// denormalized duration and the yearly cap check.
type ActivityRecorder struct {
	Roles      ProjectRoleStore
	Activities ActivityStore
	Durations  *generic.DurationCalculator
	Calendar   *ActivityCalendarService
}

func NewActivityRecorder(roles ProjectRoleStore, activities ActivityStore, calendars generic.CalendarProvider) *ActivityRecorder {
	return &ActivityRecorder{
		Roles:      roles,
		Activities: activities,
		Durations:  generic.NewDurationCalculator(calendars),
		Calendar:   NewActivityCalendarService(calendars),
	}
}

// RecordRequest is the input of Record. An empty ID creates a new activity.
type RecordRequest struct {
	ID          string
	UserID      string
	RoleID      string
	Start       time.Time
	End         time.Time
	Description string
}

// Record validates and persists an activity.
//
// Day-based roles log whole days: Start moves to 00:00 and End to 23:59:59
// of the last date touched. An End at exactly midnight stops at the date
// before it. Capped roles are checked per calendar year the activity touches.
func (r *ActivityRecorder) Record(ctx context.Context, req RecordRequest) (*Activity, error) {
	if req.End.Before(req.Start) {
		return nil, generic.ErrInvalidInterval
	}

	role, err := r.Roles.GetProjectRole(ctx, req.RoleID)
	if err != nil {
		return nil, fmt.Errorf("load project role: %w", err)
	}
	if role == nil {
		return nil, fmt.Errorf("%w: %s", generic.ErrProjectRoleNotFound, req.RoleID)
	}

	start, end := req.Start, req.End
	if role.TimeUnit.IsDayBased() {
		last := generic.TimeRange{Start: start, End: end}.Dates().End
		start, end = generic.StartOfDay(start), generic.EndOfDay(last)
	}

	duration, err := r.Durations.Duration(ctx, start, end, role.TimeUnit)
	if err != nil {
		return nil, err
	}

	activity := Activity{
		ID:          req.ID,
		UserID:      req.UserID,
		Role:        *role,
		Start:       start,
		End:         end,
		Duration:    duration,
		Description: req.Description,
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}

	if role.IsCapped() {
		from := time.Date(start.Year(), time.January, 1, 0, 0, 0, 0, start.Location())
		to := time.Date(end.Year()+1, time.January, 1, 0, 0, 0, 0, start.Location())
		existing, err := r.Activities.FindActivitiesByRole(ctx, req.UserID, role.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("load role activities: %w", err)
		}
		if err := r.Calendar.CheckRoleCap(ctx, *role, existing, activity); err != nil {
			return nil, err
		}
	}

	if err := r.Activities.SaveActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("save activity: %w", err)
	}
	return &activity, nil
}
