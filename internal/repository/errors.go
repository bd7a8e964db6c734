// Package repository holds the MySQL data access layer.  The sentinel
// values below are the contract between repositories and the services
// built on top of them: services translate them into user-facing errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by id or email yields no rows.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert violates users.email
// uniqueness.
var ErrEmailExists = errors.New("email already exists")

// ErrSeatTaken is returned when a write would create a second active
// reservation for the same seat and date.
var ErrSeatTaken = errors.New("seat already reserved for date")

// ErrUserBooked is returned when a write would create a second active
// reservation for the same user and date.
var ErrUserBooked = errors.New("user already has a reservation for date")

const mysqlDuplicateEntry = 1062

// duplicateKey reports whether err is a MySQL duplicate entry error and,
// if so, returns the error message naming the violated key.
func duplicateKey(err error) (string, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return me.Message, true
	}
	return "", false
}

// reservationConflict maps a duplicate entry on one of the active
// reservation keys to ErrSeatTaken or ErrUserBooked.  Other errors pass
// through unchanged.
func reservationConflict(err error) error {
	msg, ok := duplicateKey(err)
	if !ok {
		return err
	}
	switch {
	case strings.Contains(msg, "uq_res_active_seat"):
		return ErrSeatTaken
	case strings.Contains(msg, "uq_res_active_user"):
		return ErrUserBooked
	}
	return err
}
