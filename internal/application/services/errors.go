package services

import (
	"errors"
	"fmt"

	"photo-manager-api/internal/domain/photo"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrRemoteDeleteFailed = errors.New("remote delete failed")
	ErrRemoteUploadFailed = errors.New("remote upload failed")
	ErrPersistence        = errors.New("persistence error")

	ErrPrincipalMismatch = fmt.Errorf("%w: principal does not match user", ErrUnauthorized)
	ErrNotPhotoOwner     = fmt.Errorf("%w: photo does not belong to user", ErrUnauthorized)
	ErrAlreadyMain       = fmt.Errorf("%w: already main", ErrInvalidState)
	ErrIsMainPhoto       = fmt.Errorf("%w: is main photo", ErrInvalidState)
)

// isBusinessError reports errors that must reach the caller unwrapped,
// everything else raised inside a transaction is a persistence failure.
func isBusinessError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrRemoteDeleteFailed)
}

// txError classifies an error returned by InUserTx.
func txError(op string, err error) error {
	switch {
	case isBusinessError(err):
		return err
	case errors.Is(err, photo.ErrMainConflict):
		return fmt.Errorf("%w: %s: %w", ErrInvalidState, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
