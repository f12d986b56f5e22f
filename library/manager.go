package library

import (
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// LibraryManager is a thin façade over Library, FineCalculator and Journal,
// keeping CLI code simple. It takes plain strings from the shell, prices
// returns, and keeps the journal in step with every successful borrow and
// return.
type LibraryManager struct {
	lib     *Library
	fines   *FineCalculator
	journal *Journal
	log     *slog.Logger
}

// NewLibraryManager wires the collaborators. A nil logger discards output.
func NewLibraryManager(lib *Library, fines *FineCalculator, journal *Journal, logger *slog.Logger) *LibraryManager {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &LibraryManager{lib: lib, fines: fines, journal: journal, log: logger}
}

// Close closes the journal.
func (lm *LibraryManager) Close() error { return lm.journal.Close() }

// Now is the manager's reference time for due dates, overdue checks and fines.
func (lm *LibraryManager) Now() time.Time { return lm.lib.now() }

func (lm *LibraryManager) Library() *Library              { return lm.lib }
func (lm *LibraryManager) FineCalculator() *FineCalculator { return lm.fines }

// ------------------ Catalog ------------------

// AddBook validates and catalogues a new book.
func (lm *LibraryManager) AddBook(title, author, isbn string) Result[*Book] {
	book, err := NewBook(title, author, isbn)
	if err != nil {
		lm.log.Info("library.add_book", "isbn", isbn, "ok", false, "reason", err.Error())
		return Failure[*Book](err)
	}
	res := lm.lib.AddBook(book)
	lm.log.Info("library.add_book", "isbn", book.ISBN(), "ok", res.OK, "reason", res.Message)
	return res
}

func (lm *LibraryManager) SearchBooks(q string) []*Book { return lm.lib.SearchBooks(q) }
func (lm *LibraryManager) AvailableBooks() []*Book      { return lm.lib.AvailableBooks() }

func (lm *LibraryManager) Book(isbn string) (*Book, bool) {
	return lm.lib.Book(isbn)
}

// ------------------ Members ------------------

// RegisterMember validates and registers a new member.
func (lm *LibraryManager) RegisterMember(name, id string) Result[*Member] {
	member, err := NewMember(name, id)
	if err != nil {
		lm.log.Info("library.register_member", "member_id", id, "ok", false, "reason", err.Error())
		return Failure[*Member](err)
	}
	res := lm.lib.RegisterMember(member)
	lm.log.Info("library.register_member", "member_id", id, "ok", res.OK, "reason", res.Message)
	return res
}

func (lm *LibraryManager) Member(id string) (*Member, bool) { return lm.lib.Member(id) }

// ------------------ Circulation ------------------

// BorrowBook lends a book and opens a loan in the journal.
func (lm *LibraryManager) BorrowBook(memberID, isbn string) Result[*Book] {
	now := lm.Now()
	res := lm.lib.BorrowBook(memberID, isbn)
	lm.log.Info("library.borrow", "member_id", memberID, "isbn", isbn, "ok", res.OK, "reason", res.Message)
	if !res.OK {
		return res
	}

	due, _ := res.Data.DueDate()
	if _, err := lm.journal.RecordBorrow(memberID, isbn, now, due); err != nil {
		lm.log.Error("journal.record_borrow", "member_id", memberID, "isbn", isbn, "err", err)
	}
	return res
}

// Return is what the shell shows after a successful return.
type Return struct {
	Book        *Book
	DaysOverdue int
	Fine        decimal.Decimal
}

// ReturnBook takes a book back, prices any lateness and closes the loan.
func (lm *LibraryManager) ReturnBook(memberID, isbn string) Result[Return] {
	now := lm.Now()

	// Price before returning: the due date is cleared by the return.
	var days int
	fine := decimal.Zero
	if book, ok := lm.lib.Book(isbn); ok {
		days, fine = lm.fines.FineDetails(book, now)
	}

	res := lm.lib.ReturnBook(memberID, isbn)
	lm.log.Info("library.return", "member_id", memberID, "isbn", isbn, "ok", res.OK, "reason", res.Message,
		"days_overdue", days, "fine", fine.StringFixed(2))
	if !res.OK {
		return Result[Return]{Message: res.Message, Err: res.Err}
	}

	if err := lm.journal.RecordReturn(memberID, isbn, now, fine); err != nil {
		lm.log.Error("journal.record_return", "member_id", memberID, "isbn", isbn, "err", err)
	}
	return Success(res.Message, Return{Book: res.Data, DaysOverdue: days, Fine: fine})
}

// ------------------ Overdue & fines ------------------

// FineLine is one overdue book and what it costs.
type FineLine struct {
	Book        *Book
	DaysOverdue int
	Fine        decimal.Decimal
}

// Statement is a member's outstanding fines as of a point in time.
type Statement struct {
	Member *Member
	Total  decimal.Decimal
	Lines  []FineLine
}

// FineStatement prices every overdue book memberID holds as of asOf.
func (lm *LibraryManager) FineStatement(memberID string, asOf time.Time) (Statement, bool) {
	member, ok := lm.lib.Member(memberID)
	if !ok {
		return Statement{}, false
	}
	return lm.statement(member, asOf), true
}

// OverdueReport builds a statement for every member with overdue books.
func (lm *LibraryManager) OverdueReport(asOf time.Time) []Statement {
	members := lm.lib.MembersWithOverdueBooks(asOf)
	out := make([]Statement, 0, len(members))
	for _, m := range members {
		out = append(out, lm.statement(m, asOf))
	}
	return out
}

func (lm *LibraryManager) statement(member *Member, asOf time.Time) Statement {
	st := Statement{Member: member, Total: lm.fines.CalculateTotalFines(member, asOf)}
	for _, b := range member.OverdueBooks(asOf) {
		days, fine := lm.fines.FineDetails(b, asOf)
		st.Lines = append(st.Lines, FineLine{Book: b, DaysOverdue: days, Fine: fine})
	}
	return st
}

// ------------------ History & stats ------------------

// History returns memberID's loans from the journal, oldest first.
func (lm *LibraryManager) History(memberID string) ([]Loan, error) {
	return lm.journal.MemberHistory(memberID)
}

// Stats are the catalog counters, computed on demand.
type Stats struct {
	TotalBooks int
	Available  int
	Borrowed   int
	Members    int
}

func (lm *LibraryManager) Stats() Stats {
	return Stats{
		TotalBooks: lm.lib.TotalBooks(),
		Available:  lm.lib.AvailableCount(),
		Borrowed:   lm.lib.BorrowedCount(),
		Members:    lm.lib.TotalMembers(),
	}
}

// ------------------ Seeding ------------------

// ApplySeed loads a seed into the library, journals the seeded loans and
// logs each rejected entry.
func (lm *LibraryManager) ApplySeed(seed Seed) SeedReport {
	now := lm.Now()
	report := lm.lib.ApplySeed(seed)
	for _, sl := range report.Lent {
		book, ok := lm.lib.Book(sl.ISBN)
		if !ok {
			continue
		}
		due, _ := book.DueDate()
		if _, err := lm.journal.RecordBorrow(sl.MemberID, sl.ISBN, now, due); err != nil {
			lm.log.Error("journal.record_borrow", "member_id", sl.MemberID, "isbn", sl.ISBN, "err", err)
		}
	}
	for _, r := range report.Rejected {
		lm.log.Warn("library.seed_rejected", "kind", r.Kind, "key", r.Key, "reason", r.Reason)
	}
	lm.log.Info("library.seeded", "books", report.Books, "members", report.Members, "rejected", len(report.Rejected))
	return report
}
