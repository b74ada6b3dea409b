// Package errors provides structured error handling for cjkfts.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration and dictionary errors
//   - 2XX: IO errors (index directory, lock, on-disk schema)
//   - 4XX: Caller errors (state, profile, query syntax)
//   - 5XX: Internal errors (commit, search execution)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration or dictionary errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates index directory, lock and persistence errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates errors caused by caller input or call order.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected engine failures.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates the handle cannot be used, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates the operation failed but the engine is usable.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound  = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "ERR_102_CONFIG_INVALID"
	ErrCodeDictionaryLoad  = "ERR_104_DICTIONARY_LOAD"
	ErrCodeAnalyzerInvalid = "ERR_105_ANALYZER_INVALID"

	// IO errors (200-299)
	ErrCodeDirCreate      = "ERR_202_DIR_CREATE"
	ErrCodeCorruptIndex   = "ERR_205_CORRUPT_INDEX"
	ErrCodeManifest       = "ERR_206_MANIFEST"
	ErrCodeIndexLocked    = "ERR_207_INDEX_LOCKED"
	ErrCodeSchemaMismatch = "ERR_208_SCHEMA_MISMATCH"
	ErrCodeIndexClosed    = "ERR_209_INDEX_CLOSED"

	// Validation errors (400-499)
	ErrCodeNotInitialized = "ERR_401_NOT_INITIALIZED"
	ErrCodeInvalidProfile = "ERR_402_INVALID_PROFILE"
	ErrCodeInvalidQuery   = "ERR_403_INVALID_QUERY"
	ErrCodeInvalidInput   = "ERR_404_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_503_SEARCH_FAILED"
	ErrCodeIndexFailed  = "ERR_505_INDEX_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeCorruptIndex, ErrCodeDictionaryLoad, ErrCodeSchemaMismatch:
		return SeverityFatal
	case ErrCodeIndexLocked:
		return SeverityWarning
	}
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
// A held directory lock clears once the other process exits.
func isRetryableCode(code string) bool {
	return code == ErrCodeIndexLocked
}
