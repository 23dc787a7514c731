// Package validation converts untyped request payloads into typed domain values.
//
// Every check either returns a normalized value or a VALIDATION_FAILED domain error
// carrying one message per invalid field, keyed by the field's JSON name.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/incident-panel/internal/domain"
	apperrors "github.com/spec-kit/incident-panel/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("incident_priority", func(fl validator.FieldLevel) bool {
		p := domain.IncidentPriority(fl.Field().String())
		for _, candidate := range domain.IncidentPriorities {
			if candidate == p {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("incident_status", func(fl validator.FieldLevel) bool {
		return domain.IncidentStatus(fl.Field().String()).Valid()
	})
	// Tags see the plain value; absent and null both read as empty and null is checked separately.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if s, ok := field.Interface().(OptionalString); ok && s.Set && !s.Null {
			return s.Value
		}
		return ""
	}, OptionalString{})
	return v
}

// NullableString records whether a JSON key was present and whether it was null.
type NullableString struct {
	Set   bool
	Valid bool
	Value string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Valid = false
		n.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when absent or null.
func (n NullableString) Ptr() *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// OptionalString is a key that may be omitted but, when present, must not be null.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value as a pointer, nil when absent or empty.
func (o OptionalString) Ptr() *string {
	if !o.Set || o.Null || o.Value == "" {
		return nil
	}
	v := o.Value
	return &v
}

func nullIssue(field string, o OptionalString) []apperrors.FieldIssue {
	if !o.Set || !o.Null {
		return nil
	}
	label, ok := fieldLabels[field]
	if !ok {
		label = "El campo " + field
	}
	return []apperrors.FieldIssue{{Field: field, Message: label + " no puede ser nulo"}}
}

// IncidentCreateInput is the shape accepted when filing an incident.
type IncidentCreateInput struct {
	Title       *string        `json:"title" validate:"required,min=5,max=100"`
	Description *string        `json:"description" validate:"required,min=10,max=500"`
	Priority    *string        `json:"priority" validate:"required,incident_priority"`
	Area        *string        `json:"area" validate:"required,min=2,max=50"`
	Status      OptionalString `json:"status" validate:"omitempty,incident_status"`
	UserID      NullableString `json:"userId"`
}

// IncidentUpdateInput is the shape accepted when patching an incident.
type IncidentUpdateInput struct {
	Status OptionalString `json:"status" validate:"omitempty,incident_status"`
	UserID NullableString `json:"userId"`
}

// UserCreateInput is the shape accepted when registering a user.
type UserCreateInput struct {
	Name  *string `json:"name" validate:"required,min=2,max=50"`
	Email *string `json:"email" validate:"required,email,max=100"`
}

var updatableIncidentFields = map[string]struct{}{
	"status": {},
	"userId": {},
}

// ValidateIncidentCreate checks a raw incident creation payload.
func ValidateIncidentCreate(body []byte) (domain.NewIncident, error) {
	var in IncidentCreateInput
	if err := decode(body, &in); err != nil {
		return domain.NewIncident{}, err
	}
	return in.Validate()
}

// Validate checks the typed creation input. Status defaults to OPEN.
func (in IncidentCreateInput) Validate() (domain.NewIncident, error) {
	if err := structIssues(in, nullIssue("status", in.Status)...); err != nil {
		return domain.NewIncident{}, err
	}
	out := domain.NewIncident{
		Title:       *in.Title,
		Description: *in.Description,
		Priority:    domain.IncidentPriority(*in.Priority),
		Area:        *in.Area,
		Status:      domain.IncidentStatusOpen,
		UserID:      in.UserID.Ptr(),
	}
	if status := in.Status.Ptr(); status != nil {
		out.Status = domain.IncidentStatus(*status)
	}
	return out, nil
}

// ValidateIncidentUpdate checks a raw incident patch payload.
// Only status and userId may be present.
func ValidateIncidentUpdate(body []byte) (domain.IncidentPatch, error) {
	var keys map[string]json.RawMessage
	if err := decode(body, &keys); err != nil {
		return domain.IncidentPatch{}, err
	}
	var rejected []string
	for key := range keys {
		if _, ok := updatableIncidentFields[key]; !ok {
			rejected = append(rejected, key)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		issues := make([]apperrors.FieldIssue, 0, len(rejected))
		for _, key := range rejected {
			issues = append(issues, apperrors.FieldIssue{Field: key, Message: fmt.Sprintf("El campo %s no se puede modificar", key)})
		}
		return domain.IncidentPatch{}, apperrors.NewValidationError(issues...)
	}

	var in IncidentUpdateInput
	if err := decode(body, &in); err != nil {
		return domain.IncidentPatch{}, err
	}
	return in.Validate()
}

// Validate checks the typed patch input.
func (in IncidentUpdateInput) Validate() (domain.IncidentPatch, error) {
	if err := structIssues(in, nullIssue("status", in.Status)...); err != nil {
		return domain.IncidentPatch{}, err
	}
	var patch domain.IncidentPatch
	if value := in.Status.Ptr(); value != nil {
		status := domain.IncidentStatus(*value)
		patch.Status = &status
	}
	if in.UserID.Set {
		patch.Assignee = domain.AssigneeChange{Set: true, UserID: in.UserID.Ptr()}
	}
	return patch, nil
}

// ValidateUserCreate checks a raw user creation payload.
func ValidateUserCreate(body []byte) (domain.NewUser, error) {
	var in UserCreateInput
	if err := decode(body, &in); err != nil {
		return domain.NewUser{}, err
	}
	return in.Validate()
}

// Validate checks the typed user input.
func (in UserCreateInput) Validate() (domain.NewUser, error) {
	if err := structIssues(in); err != nil {
		return domain.NewUser{}, err
	}
	return domain.NewUser{Name: *in.Name, Email: *in.Email}, nil
}

func decode(body []byte, dst any) error {
	err := json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewValidationError(apperrors.FieldIssue{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("El campo %s tiene un tipo inválido", typeErr.Field),
		})
	}
	return apperrors.NewValidationError(apperrors.FieldIssue{
		Field:   "body",
		Message: "El cuerpo de la petición no es un JSON válido",
	})
}

// structIssues runs the struct tags and appends extra issues found outside them.
func structIssues(in any, extra ...apperrors.FieldIssue) error {
	var issues []apperrors.FieldIssue
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apperrors.NewInternalError(err)
		}
		for _, fe := range fieldErrs {
			issues = append(issues, apperrors.FieldIssue{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}
	issues = append(issues, extra...)
	if len(issues) == 0 {
		return nil
	}
	return apperrors.NewValidationError(issues...)
}
