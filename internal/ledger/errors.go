package ledger

import "errors"

var (
	ErrInvalidTimeFormat         = errors.New("invalid time format")
	ErrInvalidInterval           = errors.New("end time must be after start time")
	ErrUnresolvableReferenceDate = errors.New("unresolvable reference date")
	ErrInvalidPeriodKind         = errors.New("invalid period kind")
	ErrEmptyAccountName          = errors.New("account name is empty")
	ErrDuplicateAccount          = errors.New("account already exists")
	ErrAccountNotFound           = errors.New("account not found")
	ErrIntervalNotFound          = errors.New("interval not found")
	ErrDayNotStarted             = errors.New("day has not been started")
)
