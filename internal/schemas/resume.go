package schemas

import (
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-intake/internal/types"
)

//go:embed resume.schema.json
var resumeSchema string

var (
	compiledResume     *gojsonschema.Schema
	compiledResumeErr  error
	compiledResumeOnce sync.Once

	resumeValidate     *validator.Validate
	resumeValidateOnce sync.Once
)

// ResumeSchema returns the JSON Schema document for StructuredResume.
func ResumeSchema() string {
	return resumeSchema
}

// ValidateResumeJSON validates raw JSON against the embedded StructuredResume schema.
func ValidateResumeJSON(jsonContent string) error {
	compiledResumeOnce.Do(func() {
		compiledResume, compiledResumeErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeSchema))
	})
	if compiledResumeErr != nil {
		return &SchemaLoadError{Path: "resume.schema.json", Message: "invalid embedded schema", Cause: compiledResumeErr}
	}

	result, err := compiledResume.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		// The document itself could not be decoded.
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return resultError(result)
}

// ValidateResume checks the invariants a decoded StructuredResume must hold: required
// names, well-formed email, non-empty skill buckets and end dates not before start dates.
// Field paths use JSON names, e.g. "work_experience[1].end_date".
func ValidateResume(r *types.StructuredResume) error {
	if r == nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: "resume is nil"}}}
	}

	err := structValidator().Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate resume: %w", err)
	}

	out := &ValidationError{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

func structValidator() *validator.Validate {
	resumeValidateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterStructValidation(dateRangeValidation, types.EducationItem{}, types.WorkItem{})
		resumeValidate = v
	})
	return resumeValidate
}

func dateRangeValidation(sl validator.StructLevel) {
	var start, end types.Date
	switch item := sl.Current().Interface().(type) {
	case types.EducationItem:
		start, end = item.StartDate, item.EndDate
	case types.WorkItem:
		start, end = item.StartDate, item.EndDate
	default:
		return
	}

	s, okStart := start.Resolve()
	e, okEnd := end.Resolve()
	if okStart && okEnd && e.Before(s) {
		sl.ReportError(end.String(), "end_date", "EndDate", "date_order", "start_date")
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "min":
		return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
	case "date_order":
		return fmt.Sprintf("must not be before %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
