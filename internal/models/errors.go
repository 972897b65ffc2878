package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed required import fields
	ErrValidation = errors.New("validation failed")

	// ErrInvalidData marks provider payload values that cannot be normalized
	ErrInvalidData = errors.New("invalid data")
)

// ValidationError describes a required field that is missing or malformed
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DataError describes a provider value that failed normalization
type DataError struct {
	Source string
	Field  string
	Value  any
	Err    error
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("invalid value %v for %s", e.Value, e.Field)
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is implements errors.Is support
func (e *DataError) Is(target error) bool {
	return target == ErrInvalidData
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// RecordError ties a failure to the import record that caused it
type RecordError struct {
	Index        int
	SerialNumber string
	Err          error
}

func (e *RecordError) Error() string {
	if e.SerialNumber != "" {
		return fmt.Sprintf("record %d (serial %s): %v", e.Index, e.SerialNumber, e.Err)
	}
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// MarshalJSON includes the underlying error message
func (e *RecordError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index        int    `json:"index"`
		SerialNumber string `json:"serial_number,omitempty"`
		Error        string `json:"error"`
	}{e.Index, e.SerialNumber, fmt.Sprint(e.Err)})
}
