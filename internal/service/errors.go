package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/office-seat-reservation/internal/repository"
)

// ValidationError reports a malformed input field.
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

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

var (
	ErrNotFound             = errors.New("not found")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrPastDate             = errors.New("date is in the past")
	ErrDuplicateUserBooking = errors.New("you already have a reservation on this date")
	ErrSeatAlreadyBooked    = errors.New("seat is already booked on this date")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrSeatUnavailable      = errors.New("seat is not available for booking")
	ErrReservationCancelled = errors.New("reservation is cancelled")
)

var domainErrors = []error{
	ErrNotFound, ErrNotAuthorized, ErrPastDate, ErrDuplicateUserBooking, ErrSeatAlreadyBooked,
	ErrDuplicateEmail, ErrInvalidCredentials, ErrSeatUnavailable, ErrReservationCancelled,
}

// StorageError wraps an unexpected failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// translate maps repository sentinels onto service errors and wraps
// anything unexpected in a StorageError.  Service errors pass through.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrSeatTaken):
		return ErrSeatAlreadyBooked
	case errors.Is(err, repository.ErrUserBooked):
		return ErrDuplicateUserBooking
	case errors.Is(err, repository.ErrEmailExists):
		return ErrDuplicateEmail
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return err
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
