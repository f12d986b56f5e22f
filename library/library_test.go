package library

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var libNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestLibrary(t *testing.T, opts ...Option) *Library {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return libNow })}, opts...)
	lib := New(opts...)
	require.True(t, lib.RegisterMember(mustMember(t, "Alice", "AB1234")).OK)
	require.True(t, lib.AddBook(mustBook(t, "The Hobbit", "J.R.R. Tolkien", "0306406152")).OK)
	return lib
}

func TestAddBookRejectsDuplicateISBN(t *testing.T) {
	lib := New()
	first := mustBook(t, "Title", "Author", "0306406152")

	res := lib.AddBook(first)
	require.True(t, res.OK)
	assert.Same(t, first, res.Data)
	assert.Equal(t, "Book added successfully", res.Message)

	res = lib.AddBook(mustBook(t, "Other", "Someone", "0306406152"))
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrDuplicate)
	assert.Equal(t, "A book with this ISBN already exists", res.Message)
	assert.Equal(t, 1, lib.TotalBooks())

	res = lib.AddBook(nil)
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrValidation)
}

func TestRegisterMemberRejectsDuplicateID(t *testing.T) {
	lib := New()
	require.True(t, lib.RegisterMember(mustMember(t, "Alice", "AB1234")).OK)

	res := lib.RegisterMember(mustMember(t, "Another Alice", "AB1234"))
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrDuplicate)
	assert.Equal(t, "A member with this ID already exists", res.Message)
	assert.Equal(t, 1, lib.TotalMembers())

	m, ok := lib.Member("AB1234")
	require.True(t, ok)
	assert.Equal(t, "Alice", m.Name())
}

func TestBorrowAndReturnEndToEnd(t *testing.T) {
	lib := newTestLibrary(t)

	res := lib.BorrowBook("AB1234", "0306406152")
	require.True(t, res.OK, res.Message)
	assert.Equal(t, "Book borrowed successfully", res.Message)

	book, ok := lib.Book("0306406152")
	require.True(t, ok)
	assert.Equal(t, Borrowed, book.Status())
	due, _ := book.DueDate()
	assert.True(t, due.Equal(libNow.AddDate(0, 0, DefaultLoanDays)))
	assert.Empty(t, lib.AvailableBooks())

	member, _ := lib.Member("AB1234")
	require.Len(t, member.BorrowedBooks(), 1)
	assert.Same(t, book, member.BorrowedBooks()[0])

	ret := lib.ReturnBook("AB1234", "0306406152")
	require.True(t, ret.OK, ret.Message)
	assert.Equal(t, "Book returned successfully", ret.Message)
	assert.Equal(t, []*Book{book}, lib.AvailableBooks())
	assert.Zero(t, member.BorrowedCount())
}

func TestBorrowFailures(t *testing.T) {
	lib := newTestLibrary(t)
	require.True(t, lib.RegisterMember(mustMember(t, "Bob", "CD5678")).OK)

	res := lib.BorrowBook("ZZ0000", "0306406152")
	assert.Equal(t, "Member not found", res.Message)
	assert.ErrorIs(t, res.Err, ErrNotFound)

	res = lib.BorrowBook("AB1234", "9999999999")
	assert.Equal(t, "Book not found", res.Message)
	assert.ErrorIs(t, res.Err, ErrNotFound)

	require.True(t, lib.BorrowBook("AB1234", "0306406152").OK)

	res = lib.BorrowBook("CD5678", "0306406152")
	assert.False(t, res.OK)
	assert.Equal(t, "Book is not available for borrowing", res.Message)
	assert.ErrorIs(t, res.Err, ErrInvalidState)

	res = lib.BorrowBook("AB1234", "0306406152")
	assert.Equal(t, "Member has already borrowed this book", res.Message)

	ret := lib.ReturnBook("CD5678", "0306406152")
	assert.False(t, ret.OK)
	assert.Equal(t, "Member has not borrowed this book", ret.Message)

	ret = lib.ReturnBook("AB1234", "9999999999")
	assert.Equal(t, "Book not found", ret.Message)

	require.True(t, lib.ReturnBook("AB1234", "0306406152").OK)
	ret = lib.ReturnBook("AB1234", "0306406152")
	assert.False(t, ret.OK)
	assert.ErrorIs(t, ret.Err, ErrInvalidState)
}

func TestBorrowLimitThroughLibrary(t *testing.T) {
	lib := newTestLibrary(t)
	for _, b := range books(t, MaxBorrowedBooks) {
		require.True(t, lib.AddBook(b).OK)
		require.True(t, lib.BorrowBook("AB1234", b.ISBN()).OK)
	}

	res := lib.BorrowBook("AB1234", "0306406152")
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrLimitExceeded)

	m, _ := lib.Member("AB1234")
	assert.Equal(t, MaxBorrowedBooks, m.BorrowedCount())
	hobbit, _ := lib.Book("0306406152")
	assert.True(t, hobbit.IsAvailable())
}

func TestWithLoanDays(t *testing.T) {
	lib := newTestLibrary(t, WithLoanDays(7))
	res := lib.BorrowBook("AB1234", "0306406152")
	require.True(t, res.OK)
	due, _ := res.Data.DueDate()
	assert.True(t, due.Equal(libNow.AddDate(0, 0, 7)))
}

func TestSearchBooks(t *testing.T) {
	lib := newTestLibrary(t)
	require.True(t, lib.AddBook(mustBook(t, "Dune", "Frank Herbert", "0-441-17271-7")).OK)

	assert.Empty(t, lib.SearchBooks(""))
	assert.Empty(t, lib.SearchBooks("   "))

	got := lib.SearchBooks("tolkien")
	require.Len(t, got, 1)
	assert.Equal(t, "The Hobbit", got[0].Title())

	got = lib.SearchBooks("DUNE")
	require.Len(t, got, 1)
	assert.Equal(t, "Frank Herbert", got[0].Author())

	got = lib.SearchBooks("044117271")
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Title())

	assert.Len(t, lib.SearchBooks("e"), 2)
	assert.Empty(t, lib.SearchBooks("nothing like this"))
}

func TestMembersWithOverdueBooks(t *testing.T) {
	lib := newTestLibrary(t)
	require.True(t, lib.RegisterMember(mustMember(t, "Bob", "CD5678")).OK)
	require.True(t, lib.AddBook(mustBook(t, "Dune", "Frank Herbert", "0441172717")).OK)

	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	require.True(t, lib.BorrowBookUntil("AB1234", "0306406152", due).OK)
	require.True(t, lib.BorrowBookUntil("CD5678", "0441172717", due.AddDate(0, 0, 5)).OK)

	assert.Empty(t, lib.MembersWithOverdueBooks(due))

	got := lib.MembersWithOverdueBooks(due.AddDate(0, 0, 1))
	require.Len(t, got, 1)
	assert.Equal(t, "AB1234", got[0].ID())

	assert.Len(t, lib.MembersWithOverdueBooks(due.AddDate(0, 0, 6)), 2)
}

func TestCountersAreDerived(t *testing.T) {
	lib := newTestLibrary(t)
	require.True(t, lib.AddBook(mustBook(t, "Dune", "Frank Herbert", "0441172717")).OK)

	assert.Equal(t, 2, lib.TotalBooks())
	assert.Equal(t, 2, lib.AvailableCount())
	assert.Equal(t, 0, lib.BorrowedCount())
	assert.Equal(t, 1, lib.TotalMembers())

	require.True(t, lib.BorrowBook("AB1234", "0441172717").OK)
	assert.Equal(t, 1, lib.AvailableCount())
	assert.Equal(t, 1, lib.BorrowedCount())

	assert.Len(t, lib.Books(), 2)
	assert.Len(t, lib.Members(), 1)

	_, ok := lib.Book("0000000000")
	assert.False(t, ok)
	_, ok = lib.Member("ZZ9999")
	assert.False(t, ok)
}

func TestConcurrentBorrowOfSameBook(t *testing.T) {
	lib := New()
	require.True(t, lib.AddBook(mustBook(t, "Title", "Author", "0306406152")).OK)

	ids := []string{"AA0001", "AA0002", "AA0003", "AA0004", "AA0005", "AA0006", "AA0007", "AA0008"}
	for _, id := range ids {
		require.True(t, lib.RegisterMember(mustMember(t, "Reader", id)).OK)
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if lib.BorrowBook(id, "0306406152").OK {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lib.BorrowedCount())
}
