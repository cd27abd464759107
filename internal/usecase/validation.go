package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/lead-console/internal/entity"
)

var validate = validator.New()

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every violation of one input.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func ValidateEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

func ValidateLeadPatch(p entity.LeadPatch) ValidationErrors {
	var errs ValidationErrors

	if p.IsEmpty() {
		errs = append(errs, ValidationError{"patch", "must change email or status"})
	}
	if p.Email != "" && !ValidateEmail(p.Email) {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}
	if p.Status != "" && !p.Status.IsValid() {
		errs = append(errs, ValidationError{"status", "must be one of new, contacted, qualified, unqualified"})
	}

	return errs
}

func ValidateOpportunityPatch(p entity.OpportunityPatch) ValidationErrors {
	var errs ValidationErrors

	if p.Stage == "" && p.Amount == nil {
		errs = append(errs, ValidationError{"patch", "must change stage or amount"})
	}
	if p.Stage != "" && !p.Stage.IsValid() {
		errs = append(errs, ValidationError{"stage", "is invalid"})
	}
	if p.Amount != nil && !isValidAmount(*p.Amount) {
		errs = append(errs, ValidationError{"amount", "must be a non-negative number"})
	}

	return errs
}

func isValidAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// leadFields lists the record fields in the order they are checked for presence.
var leadFields = []string{"id", "name", "company", "email", "source", "score", "status", "createdAt"}

// ParseLeads turns decoded, untyped import data into leads. It fails on the first
// invalid record and never returns a partial list.
func ParseLeads(raw any) ([]entity.Lead, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, &FormatError{}
	}

	leads := make([]entity.Lead, 0, len(items))
	for i, item := range items {
		lead, err := parseLead(i, item)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

func parseLead(index int, item any) (entity.Lead, error) {
	rec, ok := item.(map[string]any)
	if !ok {
		return entity.Lead{}, &MissingFieldError{Index: index}
	}

	values := make(map[string]string, len(leadFields))
	for _, field := range leadFields {
		if field == "score" {
			if !hasValue(rec[field]) {
				return entity.Lead{}, &MissingFieldError{Index: index, Field: field}
			}
			continue
		}
		s, ok := stringValue(rec[field])
		if !ok {
			return entity.Lead{}, &MissingFieldError{Index: index, Field: field}
		}
		values[field] = s
	}

	score, ok := scoreValue(rec["score"])
	if !ok {
		return entity.Lead{}, &InvalidScoreError{Index: index, Value: rec["score"]}
	}

	status := entity.LeadStatus(values["status"])
	if !status.IsValid() {
		return entity.Lead{}, &InvalidStatusError{Index: index, Value: values["status"]}
	}

	return entity.Lead{
		ID:        values["id"],
		Name:      values["name"],
		Company:   values["company"],
		Email:     values["email"],
		Source:    values["source"],
		Score:     score,
		Status:    status,
		CreatedAt: values["createdAt"],
	}, nil
}

func hasValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return true
	}
}

// stringValue coerces a scalar to its canonical string form.
func stringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), t
	default:
		return "", false
	}
}

func scoreValue(v any) (int, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < entity.MinLeadScore || f > entity.MaxLeadScore {
		return 0, false
	}
	return int(f), true
}
