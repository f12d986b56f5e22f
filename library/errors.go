package library

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification. Construction problems wrap
// ErrValidation; everything a circulation operation can refuse wraps one of
// the others.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("invalid state")
	ErrLimitExceeded = errors.New("limit exceeded")
	ErrDuplicate     = errors.New("duplicate key")
)

// ValidationError reports a malformed constructor argument. Msg is
// user-facing; Field names the offending argument.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// OpError is a refused circulation operation. Msg is shown to the user as is.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e *OpError) Error() string { return e.Msg }

func (e *OpError) Unwrap() error { return e.Kind }

func opErr(op string, kind error, msg string) error {
	return &OpError{Op: op, Kind: kind, Msg: msg}
}

// User-facing messages.
const (
	msgBookNotFound        = "Book not found"
	msgMemberNotFound      = "Member not found"
	msgDuplicateISBN       = "A book with this ISBN already exists"
	msgDuplicateMemberID   = "A member with this ID already exists"
	msgBookUnavailable     = "Book is not available for borrowing"
	msgBookNotBorrowed     = "Book is not currently borrowed"
	msgAlreadyBorrowed     = "Member has already borrowed this book"
	msgNotBorrowedByMember = "Member has not borrowed this book"
)

var msgBorrowLimit = fmt.Sprintf("Member has reached the maximum limit of %d borrowed books", MaxBorrowedBooks)
