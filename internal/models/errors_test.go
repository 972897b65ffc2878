package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "name", Message: "is required"}
	assert.Equal(t, "name: is required", err.Error())
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrInvalidData)

	assert.Equal(t, "records must be a list", (&ValidationError{Message: "records must be a list"}).Error())
}

func TestDataError(t *testing.T) {
	_, parseErr := strconv.ParseFloat("abc", 64)
	err := &DataError{Source: SourceTCGplayer, Field: "market_price", Value: "abc", Err: parseErr}

	assert.Equal(t, `TCGplayer: invalid value abc for market_price: strconv.ParseFloat: parsing "abc": invalid syntax`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestRecordErrorWrapsCause(t *testing.T) {
	cause := &ValidationError{Field: "serial_number", Message: "is required"}
	err := fmt.Errorf("import aborted: %w", &RecordError{Index: 3, Err: cause})

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 3, recErr.Index)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "record 3: serial_number: is required", recErr.Error())

	withSerial := &RecordError{Index: 1, SerialNumber: "A-2", Err: errors.New("boom")}
	assert.Equal(t, "record 1 (serial A-2): boom", withSerial.Error())
}

func TestRecordErrorJSON(t *testing.T) {
	failed := []RecordError{{Index: 1, SerialNumber: "A-2", Err: &ValidationError{Field: "name", Message: "is required"}}}

	data, err := json.Marshal(struct {
		Failed []RecordError `json:"failed"`
	}{failed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"failed":[{"index":1,"serial_number":"A-2","error":"name: is required"}]}`, string(data))
}
