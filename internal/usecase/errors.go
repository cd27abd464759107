package usecase

import (
	"errors"
	"fmt"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

var (
	ErrLeadNotFound        = &DomainError{Code: "LEAD_NOT_FOUND", Message: "lead not found"}
	ErrOpportunityNotFound = &DomainError{Code: "OPPORTUNITY_NOT_FOUND", Message: "opportunity not found"}
)

// Import errors. All of them leave the lead collection untouched.

type FileTypeError struct {
	Name string
}

func (e *FileTypeError) Error() string {
	return fmt.Sprintf("Please select a valid JSON, CSV or XLSX file (got %q)", e.Name)
}

type FileSizeError struct {
	Size  int64
	Limit int64
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("File size must be less than %dMB", e.Limit/(1024*1024))
}

type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse %s file: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type FormatError struct{}

func (e *FormatError) Error() string {
	return "File must contain an array of leads"
}

type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Invalid lead data at index %d. Missing required fields.", e.Index)
	}
	return fmt.Sprintf("Invalid lead data at index %d. Missing required field %q.", e.Index, e.Field)
}

type InvalidScoreError struct {
	Index int
	Value any
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("Invalid score \"%v\" at index %d. Must be between %d-%d.", e.Value, e.Index, 0, 100)
}

type InvalidStatusError struct {
	Index int
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("Invalid status %q at index %d", e.Value, e.Index)
}

// IsImportError reports whether err belongs to the import taxonomy.
func IsImportError(err error) bool {
	var (
		fte *FileTypeError
		fse *FileSizeError
		pe  *ParseError
		fe  *FormatError
		mfe *MissingFieldError
		ise *InvalidScoreError
		ste *InvalidStatusError
	)
	return errors.As(err, &fte) || errors.As(err, &fse) || errors.As(err, &pe) ||
		errors.As(err, &fe) || errors.As(err, &mfe) || errors.As(err, &ise) || errors.As(err, &ste)
}

// SimulatedNetworkError is returned when the remote confirmation of a mutation
// fails. The caller may retry.
type SimulatedNetworkError struct {
	Op  string
	Err error
}

func (e *SimulatedNetworkError) Error() string {
	switch e.Op {
	case "lead.update":
		return "Failed to update lead"
	case "opportunity.create":
		return "Failed to create opportunity"
	case "opportunity.update":
		return "Failed to update opportunity"
	case "opportunity.delete":
		return "Failed to delete opportunity"
	}
	return "Request failed"
}

func (e *SimulatedNetworkError) Unwrap() error {
	return e.Err
}
