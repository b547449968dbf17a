package vacation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warp/worktime-engine/generic"
)

// Service persists validated vacation requests.
type Service struct {
	Store      Store
	Users      generic.UserStore
	Accounting *Accounting
	Validator  *Validator
	Clock      generic.Clock
}

func NewService(store Store, users generic.UserStore, accounting *Accounting, clock generic.Clock) *Service {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &Service{
		Store:      store,
		Users:      users,
		Accounting: accounting,
		Validator:  NewValidator(accounting, clock),
		Clock:      clock,
	}
}

// Create validates req and stores a PENDING vacation. On a validation
// failure the Result carries the Reason and the error is a *ValidationError.
func (s *Service) Create(ctx context.Context, req Request) (*Vacation, Result, error) {
	user, err := s.user(ctx, req.UserID)
	if err != nil {
		return nil, Result{}, err
	}
	existing, err := s.Store.FindVacations(ctx, req.UserID, req.Start, req.End)
	if err != nil {
		return nil, Result{}, fmt.Errorf("load vacations: %w", err)
	}

	res, err := s.Validator.ValidateCreate(ctx, req, *user, existing)
	if err != nil {
		return nil, Result{}, err
	}
	if !res.Success() {
		return nil, res, res.Err()
	}

	v := s.build(req, uuid.NewString(), res.Days)
	if err := s.Store.SaveVacation(ctx, v); err != nil {
		return nil, res, fmt.Errorf("save vacation: %w", err)
	}
	return &v, res, nil
}

// Update validates a change to vacation req.ID. A REPLACE result stores the
// new period under a fresh id before the old record is deleted. The state is
// kept: an edited REJECT or CANCELLED vacation stays inactive.
func (s *Service) Update(ctx context.Context, req Request) (*Vacation, Result, error) {
	user, err := s.user(ctx, req.UserID)
	if err != nil {
		return nil, Result{}, err
	}
	current, err := s.Store.GetVacation(ctx, req.ID)
	if err != nil {
		return nil, Result{}, fmt.Errorf("load vacation: %w", err)
	}
	existing, err := s.Store.FindVacations(ctx, req.UserID, req.Start, req.End)
	if err != nil {
		return nil, Result{}, fmt.Errorf("load vacations: %w", err)
	}

	res, err := s.Validator.ValidateUpdate(ctx, req, *user, current, existing)
	if err != nil {
		return nil, Result{}, err
	}
	if !res.Success() {
		return nil, res, res.Err()
	}

	v := s.build(req, current.ID, res.Days)
	v.State = current.State
	v.CreatedAt = current.CreatedAt
	if res.Action == ActionReplace {
		v.ID = uuid.NewString()
		v.CreatedAt = s.Clock.Now().UTC()
	}
	if err := s.Store.SaveVacation(ctx, v); err != nil {
		return nil, res, fmt.Errorf("save vacation: %w", err)
	}
	if res.Action == ActionReplace {
		if err := s.Store.DeleteVacation(ctx, current.ID); err != nil {
			return nil, res, fmt.Errorf("delete replaced vacation %s: %w", current.ID, err)
		}
	}
	return &v, res, nil
}

// Delete removes vacation id on behalf of callerID.
func (s *Service) Delete(ctx context.Context, callerID, id string) (Result, error) {
	current, err := s.Store.GetVacation(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("load vacation: %w", err)
	}
	res := s.Validator.ValidateDelete(callerID, current)
	if !res.Success() {
		return res, res.Err()
	}
	if err := s.Store.DeleteVacation(ctx, id); err != nil {
		return res, fmt.Errorf("delete vacation: %w", err)
	}
	return res, nil
}

// Review moves vacation id to state. PENDING may become ACCEPT or REJECT;
// any active vacation may be CANCELLED.
func (s *Service) Review(ctx context.Context, id string, state State) (*Vacation, error) {
	current, err := s.Store.GetVacation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load vacation: %w", err)
	}
	if current == nil {
		return nil, &ValidationError{Reason: ReasonNotFound}
	}
	if !canTransition(current.State, state) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.State, state)
	}
	current.State = state
	if err := s.Store.SaveVacation(ctx, *current); err != nil {
		return nil, fmt.Errorf("save vacation: %w", err)
	}
	return current, nil
}

func canTransition(from, to State) bool {
	switch to {
	case StateAccept, StateReject:
		return from == StatePending
	case StateCancelled:
		return from.IsActive()
	}
	return false
}

// List returns the vacations of userID whose dates touch year, with their
// workable days resolved.
func (s *Service) List(ctx context.Context, userID string, year int) ([]Vacation, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	iv := generic.YearInterval(year)
	vacations, err := s.Store.FindVacations(ctx, userID, iv.Start, iv.End)
	if err != nil {
		return nil, fmt.Errorf("load vacations: %w", err)
	}
	return s.Accounting.WithDays(ctx, vacations)
}

// Summary returns the entitlement position of userID for charge year.
func (s *Service) Summary(ctx context.Context, userID string, year int) (Summary, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	vacations, err := s.Store.FindVacationsByChargeYear(ctx, userID, year)
	if err != nil {
		return Summary{}, fmt.Errorf("load vacations: %w", err)
	}
	return s.Accounting.Summary(ctx, *user, year, vacations)
}

func (s *Service) user(ctx context.Context, id string) (*generic.User, error) {
	user, err := s.Users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", generic.ErrUserNotFound, id)
	}
	return user, nil
}

func (s *Service) build(req Request, id string, days []time.Time) Vacation {
	return Vacation{
		ID:          id,
		UserID:      req.UserID,
		Start:       generic.DateOf(req.Start),
		End:         generic.DateOf(req.End),
		State:       StatePending,
		ChargeYear:  req.chargeYear(),
		Description: req.Description,
		CreatedAt:   s.Clock.Now().UTC(),
		Days:        days,
	}
}
