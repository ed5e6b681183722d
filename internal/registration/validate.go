// Package registration holds the player registration rules shared by the
// inline field checks and the final submission.
package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"

	dbgen "github.com/codr1/Arena/internal/db/generated"
)

const (
	StatusOpen   = "open"
	StatusClosed = "closed"

	MaxNameLength = 80
)

var (
	ErrClosed       = errors.New("registration is closed")
	ErrUnknownField = errors.New("unknown registration field")
)

type Field string

const (
	FieldName           Field = "name"
	FieldMobile         Field = "mobile"
	FieldTournamentCode Field = "tournament_code"
)

var tenDigits = regexp.MustCompile(`^\d{10}$`)

// Querier is the subset of dbgen.Queries the rules need.
type Querier interface {
	GetUserByName(ctx context.Context, name string) (dbgen.User, error)
	GetUserByPhone(ctx context.Context, phoneNumber string) (dbgen.User, error)
	GetTournamentCode(ctx context.Context, code string) (dbgen.TournamentCode, error)
	GetRegistrationStatus(ctx context.Context) (string, error)
}

// Result is the outcome of checking one field.
type Result struct {
	Field   Field  `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type Submission struct {
	Name           string
	Mobile         string
	TournamentCode string
}

type Validator struct {
	q      Querier
	region string
}

func NewValidator(q Querier, region string) *Validator {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = "IN"
	}
	return &Validator{q: q, region: region}
}

// ParseField maps a form field name to a Field. "phone_number" is accepted as
// an alias for mobile.
func ParseField(raw string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "name":
		return FieldName, nil
	case "mobile", "phone", "phone_number":
		return FieldMobile, nil
	case "tournament_code", "code", "tournamentcode":
		return FieldTournamentCode, nil
	default:
		return "", ErrUnknownField
	}
}

// IsOpen reports whether registration is open. A missing status row reads as
// closed.
func (v *Validator) IsOpen(ctx context.Context) (bool, error) {
	status, err := v.q.GetRegistrationStatus(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load registration status: %w", err)
	}
	return status == StatusOpen, nil
}

// NormalizePhone returns the 10 national digits of raw, or an error when raw
// is not a valid number for region.
func NormalizePhone(raw, region string) (string, error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
	if !tenDigits.MatchString(digits) {
		return "", fmt.Errorf("mobile number must be exactly 10 digits")
	}
	num, err := phonenumbers.Parse(digits, region)
	if err != nil {
		return "", fmt.Errorf("parse mobile number: %w", err)
	}
	if !phonenumbers.IsValidNumberForRegion(num, region) {
		return "", fmt.Errorf("mobile number is not valid for region %s", region)
	}
	national := phonenumbers.GetNationalSignificantNumber(num)
	if !tenDigits.MatchString(national) {
		return "", fmt.Errorf("mobile number must be exactly 10 digits")
	}
	return national, nil
}

// CheckField validates one field, including availability lookups. Errors are
// only returned for lookup failures; rule violations come back as an invalid
// Result.
func (v *Validator) CheckField(ctx context.Context, field Field, value string) (Result, error) {
	value = strings.TrimSpace(value)
	switch field {
	case FieldName:
		return v.checkName(ctx, value)
	case FieldMobile:
		return v.checkMobile(ctx, value)
	case FieldTournamentCode:
		return v.checkCode(ctx, value)
	default:
		return Result{}, ErrUnknownField
	}
}

func (v *Validator) checkName(ctx context.Context, name string) (Result, error) {
	if name == "" {
		return invalid(FieldName, "Name is required"), nil
	}
	if len([]rune(name)) > MaxNameLength {
		return invalid(FieldName, fmt.Sprintf("Name must be at most %d characters", MaxNameLength)), nil
	}
	_, err := v.q.GetUserByName(ctx, name)
	switch {
	case err == nil:
		return invalid(FieldName, "Name already exists"), nil
	case errors.Is(err, sql.ErrNoRows):
		return valid(FieldName, "Name is available"), nil
	default:
		return Result{}, fmt.Errorf("check name: %w", err)
	}
}

func (v *Validator) checkMobile(ctx context.Context, raw string) (Result, error) {
	if raw == "" {
		return invalid(FieldMobile, "Mobile number is required"), nil
	}
	phone, err := NormalizePhone(raw, v.region)
	if err != nil {
		return invalid(FieldMobile, "Invalid mobile number format"), nil
	}
	_, err = v.q.GetUserByPhone(ctx, phone)
	switch {
	case err == nil:
		return invalid(FieldMobile, "Mobile number already registered"), nil
	case errors.Is(err, sql.ErrNoRows):
		return valid(FieldMobile, "Mobile number is available"), nil
	default:
		return Result{}, fmt.Errorf("check mobile: %w", err)
	}
}

func (v *Validator) checkCode(ctx context.Context, code string) (Result, error) {
	if code == "" {
		return invalid(FieldTournamentCode, "Tournament code is required"), nil
	}
	_, err := v.q.GetTournamentCode(ctx, code)
	switch {
	case err == nil:
		return valid(FieldTournamentCode, "Valid tournament code"), nil
	case errors.Is(err, sql.ErrNoRows):
		return invalid(FieldTournamentCode, "Invalid tournament code"), nil
	default:
		return Result{}, fmt.Errorf("check tournament code: %w", err)
	}
}

// ValidateSubmission checks every field and returns the normalized
// submission. The returned map holds a message per invalid field and is
// empty when the submission is acceptable.
func (v *Validator) ValidateSubmission(ctx context.Context, sub Submission) (Submission, map[Field]string, error) {
	normalized := Submission{
		Name:           strings.TrimSpace(sub.Name),
		Mobile:         strings.TrimSpace(sub.Mobile),
		TournamentCode: strings.TrimSpace(sub.TournamentCode),
	}
	problems := make(map[Field]string)

	checks := []struct {
		field Field
		value string
	}{
		{FieldName, normalized.Name},
		{FieldMobile, normalized.Mobile},
		{FieldTournamentCode, normalized.TournamentCode},
	}
	for _, c := range checks {
		res, err := v.CheckField(ctx, c.field, c.value)
		if err != nil {
			return normalized, nil, err
		}
		if !res.Valid {
			problems[c.field] = res.Message
		}
	}

	if _, bad := problems[FieldMobile]; !bad {
		phone, err := NormalizePhone(normalized.Mobile, v.region)
		if err != nil {
			problems[FieldMobile] = "Invalid mobile number format"
		} else {
			normalized.Mobile = phone
		}
	}

	return normalized, problems, nil
}

func valid(field Field, msg string) Result {
	return Result{Field: field, Valid: true, Message: msg}
}

func invalid(field Field, msg string) Result {
	return Result{Field: field, Valid: false, Message: msg}
}
