package library

import (
	"strings"
	"sync"
	"time"
)

// Library owns every book and member and is the only place circulation state
// changes. One mutex guards the whole catalog so a borrow or return sees and
// updates the book and the member together.
type Library struct {
	mu sync.RWMutex

	books       map[string]*Book
	bookOrder   []string
	members     map[string]*Member
	memberOrder []string

	now      func() time.Time
	loanDays int
}

// Option customises a Library.
type Option func(*Library)

// WithClock replaces time.Now, which sets due dates on borrow.
func WithClock(now func() time.Time) Option {
	return func(l *Library) { l.now = now }
}

// WithLoanDays sets the loan period; values below one are ignored.
func WithLoanDays(days int) Option {
	return func(l *Library) {
		if days > 0 {
			l.loanDays = days
		}
	}
}

// New returns an empty Library.
func New(opts ...Option) *Library {
	l := &Library{
		books:    make(map[string]*Book),
		members:  make(map[string]*Member),
		now:      time.Now,
		loanDays: DefaultLoanDays,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ------------------ Catalog ------------------

// AddBook stores book unless its ISBN is already catalogued.
func (l *Library) AddBook(book *Book) Result[*Book] {
	if book == nil {
		return Failure[*Book](invalid("book", "Book cannot be nil"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.books[book.ISBN()]; ok {
		return Failure[*Book](opErr("library.add_book", ErrDuplicate, msgDuplicateISBN))
	}
	l.books[book.ISBN()] = book
	l.bookOrder = append(l.bookOrder, book.ISBN())
	return Success("Book added successfully", book)
}

// RegisterMember stores member unless its id is taken.
func (l *Library) RegisterMember(member *Member) Result[*Member] {
	if member == nil {
		return Failure[*Member](invalid("member", "Member cannot be nil"))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.members[member.ID()]; ok {
		return Failure[*Member](opErr("library.register_member", ErrDuplicate, msgDuplicateMemberID))
	}
	l.members[member.ID()] = member
	l.memberOrder = append(l.memberOrder, member.ID())
	return Success("Member registered successfully", member)
}

// ------------------ Circulation ------------------

// BorrowBook lends the book with isbn to memberID for the configured loan
// period.
func (l *Library) BorrowBook(memberID, isbn string) Result[*Book] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.borrow(memberID, isbn, l.now().AddDate(0, 0, l.loanDays))
}

// BorrowBookUntil is BorrowBook with an explicit due date.
func (l *Library) BorrowBookUntil(memberID, isbn string, due time.Time) Result[*Book] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.borrow(memberID, isbn, due)
}

func (l *Library) borrow(memberID, isbn string, due time.Time) Result[*Book] {
	member, book, err := l.lookup("library.borrow", memberID, isbn)
	if err != nil {
		return Failure[*Book](err)
	}
	if err := member.BorrowBook(book, due); err != nil {
		return Failure[*Book](err)
	}
	return Success("Book borrowed successfully", book)
}

// ReturnBook takes back the book with isbn from memberID.
func (l *Library) ReturnBook(memberID, isbn string) Result[*Book] {
	l.mu.Lock()
	defer l.mu.Unlock()

	member, book, err := l.lookup("library.return", memberID, isbn)
	if err != nil {
		return Failure[*Book](err)
	}
	if err := member.ReturnBook(book); err != nil {
		return Failure[*Book](err)
	}
	return Success("Book returned successfully", book)
}

func (l *Library) lookup(op, memberID, isbn string) (*Member, *Book, error) {
	member, ok := l.members[memberID]
	if !ok {
		return nil, nil, opErr(op, ErrNotFound, msgMemberNotFound)
	}
	book, ok := l.books[isbn]
	if !ok {
		return nil, nil, opErr(op, ErrNotFound, msgBookNotFound)
	}
	return member, book, nil
}

// ------------------ Queries ------------------

// SearchBooks matches query case-insensitively against title, author and the
// ISBN without hyphens. A blank query matches nothing.
func (l *Library) SearchBooks(query string) []*Book {
	if strings.TrimSpace(query) == "" {
		return []*Book{}
	}
	q := strings.ToLower(query)

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []*Book{}
	for _, isbn := range l.bookOrder {
		b := l.books[isbn]
		if strings.Contains(strings.ToLower(b.Title()), q) ||
			strings.Contains(strings.ToLower(b.Author()), q) ||
			strings.Contains(strings.ToLower(strings.ReplaceAll(b.ISBN(), "-", "")), q) {
			out = append(out, b)
		}
	}
	return out
}

// MembersWithOverdueBooks lists members holding at least one overdue book.
func (l *Library) MembersWithOverdueBooks(asOf time.Time) []*Member {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []*Member{}
	for _, id := range l.memberOrder {
		m := l.members[id]
		if len(m.OverdueBooks(asOf)) > 0 {
			out = append(out, m)
		}
	}
	return out
}

// AvailableBooks lists books that can be borrowed right now.
func (l *Library) AvailableBooks() []*Book {
	return l.filterBooks(func(b *Book) bool { return b.IsAvailable() })
}

// Books lists the whole catalog in the order it was added.
func (l *Library) Books() []*Book {
	return l.filterBooks(func(*Book) bool { return true })
}

// Members lists members in registration order.
func (l *Library) Members() []*Member {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Member, 0, len(l.memberOrder))
	for _, id := range l.memberOrder {
		out = append(out, l.members[id])
	}
	return out
}

// Member looks up a member by id.
func (l *Library) Member(id string) (*Member, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.members[id]
	return m, ok
}

// Book looks up a book by ISBN.
func (l *Library) Book(isbn string) (*Book, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	b, ok := l.books[isbn]
	return b, ok
}

func (l *Library) TotalBooks() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.books)
}

func (l *Library) AvailableCount() int { return len(l.AvailableBooks()) }

func (l *Library) BorrowedCount() int {
	return len(l.filterBooks(func(b *Book) bool { return !b.IsAvailable() }))
}

func (l *Library) TotalMembers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.members)
}

func (l *Library) filterBooks(keep func(*Book) bool) []*Book {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []*Book{}
	for _, isbn := range l.bookOrder {
		if b := l.books[isbn]; keep(b) {
			out = append(out, b)
		}
	}
	return out
}
