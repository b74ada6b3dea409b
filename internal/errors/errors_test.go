package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: Error wrapping preserves original error
func TestError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("bolt: timeout")

	// When: wrapping with Error
	err := New(ErrCodeIndexLocked, "index directory is locked", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, err)
	assert.Equal(t, originalErr, errors.Unwrap(err))
	assert.True(t, errors.Is(err, originalErr))
}

func TestError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "not initialized",
			code:     ErrCodeNotInitialized,
			message:  "search engine not initialized",
			expected: "[ERR_401_NOT_INITIALIZED] search engine not initialized",
		},
		{
			name:     "dictionary",
			code:     ErrCodeDictionaryLoad,
			message:  "ko-dic failed",
			expected: "[ERR_104_DICTIONARY_LOAD] ko-dic failed",
		},
		{
			name:     "schema",
			code:     ErrCodeSchemaMismatch,
			message:  "profile differs",
			expected: "[ERR_208_SCHEMA_MISMATCH] profile differs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodeInvalidQuery, "bad query a", nil)
	err2 := New(ErrCodeInvalidQuery, "bad query b", nil)

	// Then: they match by code, but not against another code
	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, NotInitialized()))
}

func TestError_Is_WorksThroughFmtWrapping(t *testing.T) {
	// Given: a coded error wrapped by fmt.Errorf
	wrapped := fmt.Errorf("open index: %w", New(ErrCodeCorruptIndex, "segment missing", nil))

	// Then: code helpers see through the wrapper
	assert.True(t, HasCode(wrapped, ErrCodeCorruptIndex))
	assert.Equal(t, ErrCodeCorruptIndex, GetCode(wrapped))
	assert.Equal(t, CategoryIO, GetCategory(wrapped))
	assert.True(t, IsFatal(wrapped))
}

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		code      string
		category  Category
		severity  Severity
		retryable bool
	}{
		{ErrCodeConfigInvalid, CategoryConfig, SeverityError, false},
		{ErrCodeDictionaryLoad, CategoryConfig, SeverityFatal, false},
		{ErrCodeIndexLocked, CategoryIO, SeverityWarning, true},
		{ErrCodeCorruptIndex, CategoryIO, SeverityFatal, false},
		{ErrCodeNotInitialized, CategoryValidation, SeverityError, false},
		{ErrCodeIndexFailed, CategoryInternal, SeverityError, false},
		{"bad", CategoryInternal, SeverityError, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "msg", nil)
			assert.Equal(t, tt.category, err.Category)
			assert.Equal(t, tt.severity, err.Severity)
			assert.Equal(t, tt.retryable, err.Retryable)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestNotInitialized_HasSuggestion(t *testing.T) {
	err := NotInitialized()

	assert.Equal(t, ErrCodeNotInitialized, err.Code)
	assert.Contains(t, err.Suggestion, "Initialize")
}

func TestWithDetail_AddsContext(t *testing.T) {
	err := New(ErrCodeDirCreate, "cannot create index directory", nil).
		WithDetail("path", "/tmp/idx")

	assert.Equal(t, "/tmp/idx", err.Details["path"])
}

func TestFormatForCLI_IncludesHintAndCode(t *testing.T) {
	// Given: a query error
	err := InvalidQuery("title:", errors.New("syntax error"))

	// When: formatting for the terminal
	out := FormatForCLI(err)

	// Then: message, cause, hint and code are present
	assert.Contains(t, out, `invalid query "title:"`)
	assert.Contains(t, out, "Cause: syntax error")
	assert.Contains(t, out, "Hint:")
	assert.Contains(t, out, "Code: ERR_403_INVALID_QUERY")
}

func TestFormatForCLI_WrapsPlainErrors(t *testing.T) {
	out := FormatForCLI(errors.New("boom"))

	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, ErrCodeInternal)
	assert.Empty(t, FormatForCLI(nil))
}

func TestFormatJSON_RoundTripsFields(t *testing.T) {
	err := New(ErrCodeIndexLocked, "locked", errors.New("held")).WithDetail("path", "/x")

	data, jerr := FormatJSON(err)

	require.NoError(t, jerr)
	assert.JSONEq(t, `{
		"code": "ERR_207_INDEX_LOCKED",
		"message": "locked",
		"category": "IO",
		"severity": "WARNING",
		"details": {"path": "/x"},
		"cause": "held",
		"retryable": true
	}`, string(data))
}

func TestFormatForLog_PlainAndCoded(t *testing.T) {
	plain := FormatForLog(errors.New("boom"))
	assert.Equal(t, "boom", plain["error"])

	coded := FormatForLog(New(ErrCodeSearchFailed, "search failed", nil).WithDetail("query", "인천"))
	assert.Equal(t, ErrCodeSearchFailed, coded["error_code"])
	assert.Equal(t, "인천", coded["detail_query"])

	assert.Nil(t, FormatForLog(nil))
}

func TestLogAttrs_SortedKeys(t *testing.T) {
	attrs := LogAttrs(New(ErrCodeIndexLocked, "locked", nil).WithDetail("path", "/idx"))

	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"category", "detail_path", "error_code", "message", "retryable", "severity"}, keys)
	assert.Empty(t, LogAttrs(nil))
}
