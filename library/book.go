package library

import (
	"strings"
	"time"
)

// Status is the circulation state of a book.
type Status int

const (
	Available Status = iota
	Borrowed
)

func (s Status) String() string {
	switch s {
	case Available:
		return "Available"
	case Borrowed:
		return "Borrowed"
	default:
		return "Unknown"
	}
}

// Book is a single catalogued copy, identified by its ISBN.
// The due date is set exactly while the book is Borrowed.
type Book struct {
	title  string
	author string
	isbn   string
	status Status
	due    time.Time
}

// NewBook validates its arguments and returns an Available book.
func NewBook(title, author, isbn string) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	isbn = strings.TrimSpace(isbn)

	if title == "" {
		return nil, invalid("title", "Title cannot be empty")
	}
	if author == "" {
		return nil, invalid("author", "Author cannot be empty")
	}
	if isbn == "" {
		return nil, invalid("isbn", "ISBN cannot be empty")
	}
	if !ValidISBN(isbn) {
		return nil, invalid("isbn", "Invalid ISBN format")
	}

	return &Book{title: title, author: author, isbn: isbn, status: Available}, nil
}

func (b *Book) Title() string  { return b.title }
func (b *Book) Author() string { return b.author }
func (b *Book) ISBN() string   { return b.isbn }
func (b *Book) Status() Status { return b.status }

// DueDate reports the due date and whether the book is out at all.
func (b *Book) DueDate() (time.Time, bool) {
	if b.status != Borrowed {
		return time.Time{}, false
	}
	return b.due, true
}

func (b *Book) IsAvailable() bool { return b.status == Available }

// MarkBorrowed moves an Available book to Borrowed.
func (b *Book) MarkBorrowed(due time.Time) error {
	if !b.IsAvailable() {
		return opErr("book.mark_borrowed", ErrInvalidState, msgBookUnavailable)
	}
	b.status = Borrowed
	b.due = due
	return nil
}

// MarkReturned moves a Borrowed book back to Available.
func (b *Book) MarkReturned() error {
	if b.status != Borrowed {
		return opErr("book.mark_returned", ErrInvalidState, msgBookNotBorrowed)
	}
	b.status = Available
	b.due = time.Time{}
	return nil
}

// IsOverdue compares calendar days only; a book due today is not overdue.
func (b *Book) IsOverdue(asOf time.Time) bool {
	if b.status != Borrowed {
		return false
	}
	return calendarDay(asOf).After(calendarDay(b.due))
}

// calendarDay drops the time of day, keeping the date as seen in t's zone.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeISBN strips the hyphens and spaces allowed in printed ISBNs.
func NormalizeISBN(isbn string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(isbn)
}

// ValidISBN checks the ISBN-10 shape: nine digits then a digit or 'X'.
// The check digit is not verified.
func ValidISBN(isbn string) bool {
	s := NormalizeISBN(isbn)
	if len(s) != 10 {
		return false
	}
	for i := 0; i < 9; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	last := s[9]
	return (last >= '0' && last <= '9') || last == 'X'
}
