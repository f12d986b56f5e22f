package library

import (
	"regexp"
	"strings"
	"time"
)

const (
	// MaxBorrowedBooks caps how many books one member may hold at once.
	MaxBorrowedBooks = 5
	// DefaultLoanDays is the loan period used when no due date is given.
	DefaultLoanDays = 14
)

var memberIDPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{4}$`)

// Member is a registered borrower. The books it holds are the Library's own
// records, so a borrow or return is visible from both sides.
type Member struct {
	name     string
	id       string
	borrowed []*Book
}

// NewMember validates name and id (two uppercase letters, four digits).
func NewMember(name, id string) (*Member, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalid("name", "Name cannot be empty")
	}
	if strings.TrimSpace(id) == "" {
		return nil, invalid("id", "ID cannot be empty")
	}
	if !ValidMemberID(id) {
		return nil, invalid("id", "Invalid member ID format")
	}
	return &Member{name: name, id: id}, nil
}

// ValidMemberID reports whether id looks like AB1234.
func ValidMemberID(id string) bool { return memberIDPattern.MatchString(id) }

func (m *Member) Name() string { return m.name }
func (m *Member) ID() string   { return m.id }

// BorrowedBooks returns the held books in borrow order.
func (m *Member) BorrowedBooks() []*Book {
	out := make([]*Book, len(m.borrowed))
	copy(out, m.borrowed)
	return out
}

func (m *Member) BorrowedCount() int { return len(m.borrowed) }

func (m *Member) CanBorrow() bool { return len(m.borrowed) < MaxBorrowedBooks }

// BorrowBook checks the member's limit and the book's availability, then
// marks the book borrowed until due. A zero due means DefaultLoanDays from now.
func (m *Member) BorrowBook(book *Book, due time.Time) error {
	if book == nil {
		return opErr("member.borrow", ErrNotFound, msgBookNotFound)
	}
	if !m.CanBorrow() {
		return opErr("member.borrow", ErrLimitExceeded, msgBorrowLimit)
	}
	if m.indexOf(book.ISBN()) >= 0 {
		return opErr("member.borrow", ErrInvalidState, msgAlreadyBorrowed)
	}
	if !book.IsAvailable() {
		return opErr("member.borrow", ErrInvalidState, msgBookUnavailable)
	}

	if due.IsZero() {
		due = time.Now().AddDate(0, 0, DefaultLoanDays)
	}
	if err := book.MarkBorrowed(due); err != nil {
		return err
	}
	m.borrowed = append(m.borrowed, book)
	return nil
}

// ReturnBook gives back a book this member holds.
func (m *Member) ReturnBook(book *Book) error {
	if book == nil {
		return opErr("member.return", ErrNotFound, msgBookNotFound)
	}
	i := m.indexOf(book.ISBN())
	if i < 0 {
		return opErr("member.return", ErrInvalidState, msgNotBorrowedByMember)
	}
	if err := m.borrowed[i].MarkReturned(); err != nil {
		return err
	}
	m.borrowed = append(m.borrowed[:i], m.borrowed[i+1:]...)
	return nil
}

// OverdueBooks lists held books overdue as of asOf, in borrow order.
func (m *Member) OverdueBooks(asOf time.Time) []*Book {
	var out []*Book
	for _, b := range m.borrowed {
		if b.IsOverdue(asOf) {
			out = append(out, b)
		}
	}
	return out
}

func (m *Member) indexOf(isbn string) int {
	for i, b := range m.borrowed {
		if b.ISBN() == isbn {
			return i
		}
	}
	return -1
}
