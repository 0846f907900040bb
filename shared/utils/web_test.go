package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tastelink/tastelink/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValidate(t *testing.T) {
	type TestStruct struct {
		Field1 string `json:"field1" validate:"required"`
		Field2 int    `json:"field2"`
	}

	tests := []struct {
		name        string
		requestBody string
		expectedErr *errors.ErrorWithStatusCode
	}{
		{
			name:        "Valid JSON and Validation",
			requestBody: `{"field1": "value", "field2": 123}`,
		},
		{
			name:        "Invalid JSON",
			requestBody: `{"field1": "value", "field2": 123`,
			expectedErr: &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400},
		},
		{
			name:        "Missing Required Field",
			requestBody: `{"field2": 123}`,
			expectedErr: &errors.ErrorWithStatusCode{Message: "Required fields missing", StatusCode: 400},
		},
		{
			name:        "Empty Body",
			requestBody: "",
			expectedErr: &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target TestStruct
			err := DecodeValidate(io.NopCloser(strings.NewReader(tt.requestBody)), &target)
			if tt.expectedErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "value", target.Field1)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectedErr, err)
		})
	}
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	t.Run("business error keeps its status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteErrorAndStatusCode(rec, errors.ErrPostFull)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), errors.ErrPostFull.Message)
	})

	t.Run("validation error is a bad request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteErrorAndStatusCode(rec, &errors.ValidationError{Field: "title", Message: "제목은 필수입니다."})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("plain error defaults to 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteErrorAndStatusCode(rec, io.ErrUnexpectedEOF)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONError(rec, errors.ErrPostNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, errors.ErrPostNotFound.Message, body["error"])
}
