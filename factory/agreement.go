/*
Package factory provides JSON to Go entitlement agreement conversion.

PURPOSE:
  Converts JSON labour agreements into vacation.EntitlementStrategy values.
  HR stores the agreement on the user record (or as the configured
  default) and the factory creates the proper strategy.

JSON SCHEMA:
  {
    "annual_days": 22,
    "proration": "workable_days",
    "tiers": [
      {"after_years": 5, "annual_days": 24},
      {"after_years": 10, "annual_days": 26}
    ]
  }

PRORATION VALUES:
  workable_days (default)  WorkableDayProration
  natural_days             NaturalDayProration
  none                     FixedEntitlement

USAGE:
  f, err := factory.NewAgreementFactory(cfg.Vacation.Agreement)
  accounting := vacation.NewAccounting(calendars, f)

SEE ALSO:
  - vacation/entitlement.go: Strategy implementations
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/vacation"
)

// ErrInvalidAgreement is returned for agreements that cannot be applied.
var ErrInvalidAgreement = errors.New("invalid agreement")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// AgreementJSON is the JSON representation of an entitlement agreement.
type AgreementJSON struct {
	AnnualDays int          `json:"annual_days"`
	Proration  string       `json:"proration,omitempty"`
	Tiers      []TenureTier `json:"tiers,omitempty"`
}

// TenureTier represents a seniority step.
type TenureTier struct {
	AfterYears int `json:"after_years"`
	AnnualDays int `json:"annual_days"`
}

// DefaultAgreement is used when nothing is configured.
const DefaultAgreement = `{"annual_days":22,"proration":"workable_days"}`

// =============================================================================
// PARSING
// =============================================================================

// ParseAgreement parses a JSON agreement into a strategy.
func ParseAgreement(jsonStr string) (vacation.EntitlementStrategy, error) {
	var aj AgreementJSON
	if err := json.Unmarshal([]byte(jsonStr), &aj); err != nil {
		return nil, fmt.Errorf("failed to parse agreement JSON: %w", err)
	}
	return FromJSON(aj)
}

// FromJSON converts AgreementJSON to a strategy.
func FromJSON(aj AgreementJSON) (vacation.EntitlementStrategy, error) {
	if aj.AnnualDays < 0 {
		return nil, fmt.Errorf("%w: annual_days must not be negative", ErrInvalidAgreement)
	}
	build, err := prorationFor(aj.Proration)
	if err != nil {
		return nil, err
	}
	if len(aj.Tiers) == 0 {
		return build(aj.AnnualDays), nil
	}

	tiers := make([]vacation.TenureTier, 0, len(aj.Tiers))
	for _, t := range aj.Tiers {
		if t.AfterYears < 0 || t.AnnualDays < 0 {
			return nil, fmt.Errorf("%w: tier values must not be negative", ErrInvalidAgreement)
		}
		tiers = append(tiers, vacation.TenureTier{AfterYears: t.AfterYears, AnnualDays: t.AnnualDays})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].AfterYears < tiers[j].AfterYears })

	return vacation.TenureEntitlement{BaseDays: aj.AnnualDays, Tiers: tiers, Build: build}, nil
}

func prorationFor(s string) (func(int) vacation.EntitlementStrategy, error) {
	switch strings.ToLower(s) {
	case "", "workable_days":
		return func(days int) vacation.EntitlementStrategy { return vacation.WorkableDayProration{AnnualDays: days} }, nil
	case "natural_days":
		return func(days int) vacation.EntitlementStrategy { return vacation.NaturalDayProration{AnnualDays: days} }, nil
	case "none":
		return func(days int) vacation.EntitlementStrategy { return vacation.FixedEntitlement{AnnualDays: days} }, nil
	default:
		return nil, fmt.Errorf("%w: unknown proration %q", ErrInvalidAgreement, s)
	}
}

// =============================================================================
// AGREEMENT FACTORY - vacation.AgreementResolver
// =============================================================================

// AgreementFactory resolves the strategy of a user: the user's own
// agreement when set, the default otherwise.
type AgreementFactory struct {
	Default vacation.EntitlementStrategy
}

var _ vacation.AgreementResolver = (*AgreementFactory)(nil)

// NewAgreementFactory parses the default agreement. An empty string uses
// DefaultAgreement.
func NewAgreementFactory(defaultJSON string) (*AgreementFactory, error) {
	if strings.TrimSpace(defaultJSON) == "" {
		defaultJSON = DefaultAgreement
	}
	strategy, err := ParseAgreement(defaultJSON)
	if err != nil {
		return nil, fmt.Errorf("default agreement: %w", err)
	}
	return &AgreementFactory{Default: strategy}, nil
}

func (f *AgreementFactory) Resolve(user generic.User) (vacation.EntitlementStrategy, error) {
	if strings.TrimSpace(user.Agreement) == "" {
		return f.Default, nil
	}
	return ParseAgreement(user.Agreement)
}

// ValidateAgreement reports whether jsonStr is an applicable agreement.
func ValidateAgreement(jsonStr string) error {
	_, err := ParseAgreement(jsonStr)
	return err
}
