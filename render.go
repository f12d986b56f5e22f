package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"library-circulation/library"
)

const dateLayout = "2006-01-02"

type theme struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Faint  lipgloss.Style
	OK     lipgloss.Style
	Error  lipgloss.Style
}

// newTheme styles for out; colours are dropped when out is not a terminal.
func newTheme(out io.Writer) theme {
	r := lipgloss.NewRenderer(out)
	return theme{
		Title:  r.NewStyle().Bold(true),
		Header: r.NewStyle().Bold(true).Underline(true),
		Faint:  r.NewStyle().Faint(true),
		OK:     r.NewStyle().Foreground(lipgloss.Color("2")),
		Error:  r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (s *shell) renderResult(ok bool, msg string) {
	if ok {
		fmt.Fprintln(s.out, s.theme.OK.Render(msg))
		return
	}
	fmt.Fprintln(s.out, s.theme.Error.Render("Error: "+msg))
}

func (s *shell) renderBooks(title string, books []*library.Book, empty string) {
	if len(books) == 0 {
		fmt.Fprintln(s.out, empty)
		return
	}
	fmt.Fprintln(s.out, s.theme.Header.Render(title))
	fmt.Fprintf(s.out, "%-15s %-30s %-25s %-10s %s\n", "ISBN", "Title", "Author", "Status", "Due")
	fmt.Fprintln(s.out, strings.Repeat("-", 95))
	for _, b := range books {
		due := ""
		if d, ok := b.DueDate(); ok {
			due = d.Format(dateLayout)
		}
		fmt.Fprintf(s.out, "%-15s %-30s %-25s %-10s %s\n",
			b.ISBN(), truncateString(b.Title(), 30), truncateString(b.Author(), 25), b.Status(), due)
	}
}

func (s *shell) renderMember(m *library.Member) {
	fmt.Fprintln(s.out, s.theme.Header.Render(fmt.Sprintf("Member: %s (ID: %s)", m.Name(), m.ID())))
	fmt.Fprintf(s.out, "Borrowed books: %d of %d\n", m.BorrowedCount(), library.MaxBorrowedBooks)
	now := s.mgr.Now()
	for _, b := range m.BorrowedBooks() {
		due, _ := b.DueDate()
		line := fmt.Sprintf("- %s by %s (ISBN: %s, Due: %s)", b.Title(), b.Author(), b.ISBN(), due.Format(dateLayout))
		if b.IsOverdue(now) {
			line += " " + s.theme.Error.Render("OVERDUE")
		}
		fmt.Fprintln(s.out, line)
	}
}

func (s *shell) renderOverdue(report []library.Statement) {
	if len(report) == 0 {
		fmt.Fprintln(s.out, "No overdue books.")
		return
	}
	fmt.Fprintln(s.out, s.theme.Header.Render("Members with Overdue Books"))
	for _, st := range report {
		fmt.Fprintf(s.out, "\nMember: %s (ID: %s)\n", st.Member.Name(), st.Member.ID())
		for _, l := range st.Lines {
			due, _ := l.Book.DueDate()
			fmt.Fprintf(s.out, "- %s (Due: %s)\n", l.Book.Title(), due.Format(dateLayout))
		}
	}
}

func (s *shell) renderStatement(st library.Statement) {
	fmt.Fprintf(s.out, "Total fines for %s: %s\n", st.Member.Name(), money(st.Total))
	if len(st.Lines) == 0 {
		return
	}
	fmt.Fprintln(s.out, s.theme.Header.Render("Overdue Books"))
	for _, l := range st.Lines {
		fmt.Fprintf(s.out, "- %s: %d days overdue, Fine: %s\n", l.Book.Title(), l.DaysOverdue, money(l.Fine))
	}
}

func (s *shell) renderHistory(memberID string, loans []library.Loan) {
	if len(loans) == 0 {
		fmt.Fprintf(s.out, "No loans recorded for %s.\n", memberID)
		return
	}
	fmt.Fprintln(s.out, s.theme.Header.Render("Loan History for "+memberID))
	fmt.Fprintf(s.out, "%-15s %-12s %-12s %-12s %s\n", "ISBN", "Borrowed", "Due", "Returned", "Fine")
	fmt.Fprintln(s.out, strings.Repeat("-", 65))
	for _, l := range loans {
		returned, fine := "-", "-"
		if !l.Open() {
			returned = l.ReturnedAt.Format(dateLayout)
			fine = money(l.Fine)
		}
		fmt.Fprintf(s.out, "%-15s %-12s %-12s %-12s %s\n",
			l.ISBN, l.BorrowedAt.Format(dateLayout), l.DueAt.Format(dateLayout), returned, fine)
	}
}

func (s *shell) renderStats(st library.Stats) {
	fmt.Fprintln(s.out, s.theme.Header.Render("Library Statistics"))
	fmt.Fprintf(s.out, "Total books: %d | Available: %d | Borrowed: %d | Members: %d\n",
		st.TotalBooks, st.Available, st.Borrowed, st.Members)
}

func money(d decimal.Decimal) string { return "$" + d.StringFixed(2) }

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
