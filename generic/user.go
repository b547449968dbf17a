package generic

import (
	"context"
	"time"
)

// User is the employee whose time is accounted.
type User struct {
	ID         string
	Name       string
	HiringDate time.Time

	// Agreement is the JSON entitlement agreement (see factory package).
	// Empty means the configured default applies.
	Agreement string
}

// HiredBy reports whether the user was hired on or before the date of t.
func (u User) HiredBy(t time.Time) bool {
	return !DateOf(u.HiringDate).After(DateOf(t))
}

// UserStore persists users.
type UserStore interface {
	SaveUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (*User, error)
}
