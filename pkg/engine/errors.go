package engine

import (
	cerrors "github.com/Aman-CERP/cjkfts/internal/errors"
)

// Sentinel errors for errors.Is. Returned errors carry more detail but match
// these by code.
var (
	ErrNotInitialized = sentinel(cerrors.ErrCodeNotInitialized)
	ErrInvalidQuery   = sentinel(cerrors.ErrCodeInvalidQuery)
	ErrInvalidProfile = sentinel(cerrors.ErrCodeInvalidProfile)
	ErrDictionaryLoad = sentinel(cerrors.ErrCodeDictionaryLoad)
	ErrIndexLocked    = sentinel(cerrors.ErrCodeIndexLocked)
	ErrCorruptIndex   = sentinel(cerrors.ErrCodeCorruptIndex)
	ErrSchemaMismatch = sentinel(cerrors.ErrCodeSchemaMismatch)
	ErrIndexClosed    = sentinel(cerrors.ErrCodeIndexClosed)
)

func sentinel(code string) error {
	return &cerrors.Error{Code: code}
}
