package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"library-circulation/library"
)

// shell is the interactive command loop. It only parses input and renders
// results; every decision is made by the manager.
type shell struct {
	sc     *bufio.Scanner
	out    io.Writer
	mgr    *library.LibraryManager
	prompt bool
	theme  theme
}

func newShell(in io.Reader, out io.Writer, mgr *library.LibraryManager, prompt bool) *shell {
	return &shell{
		sc:     bufio.NewScanner(in),
		out:    out,
		mgr:    mgr,
		prompt: prompt,
		theme:  newTheme(out),
	}
}

const commandHelp = `Available commands:
  Books:       add book, list books, available books, search book
  Members:     add member, member details
  Circulation: borrow, return, overdue, fines, history
  System:      stats, help, exit`

// Run reads commands until "exit" or end of input.
func (s *shell) Run() error {
	fmt.Fprintln(s.out, s.theme.Title.Render("Welcome to the Library Management System"))
	fmt.Fprintln(s.out, commandHelp)

	for {
		if s.prompt {
			fmt.Fprint(s.out, "\n> ")
		}
		if !s.sc.Scan() {
			return s.sc.Err()
		}
		cmd := strings.ToLower(strings.TrimSpace(s.sc.Text()))

		switch cmd {
		case "":
			continue
		case "add book":
			s.handleAddBook()
		case "add member":
			s.handleAddMember()
		case "member details":
			s.handleMemberDetails()
		case "list books":
			s.renderBooks("Catalog", s.mgr.Library().Books(), "No books in the library.")
		case "available books":
			s.renderBooks("Available Books", s.mgr.AvailableBooks(), "No books available.")
		case "search book":
			s.handleSearch()
		case "borrow":
			s.handleBorrow()
		case "return":
			s.handleReturn()
		case "overdue":
			s.renderOverdue(s.mgr.OverdueReport(s.mgr.Now()))
		case "fines":
			s.handleFines()
		case "history":
			s.handleHistory()
		case "stats":
			s.renderStats(s.mgr.Stats())
		case "help":
			fmt.Fprintln(s.out, commandHelp)
		case "exit", "quit":
			fmt.Fprintln(s.out, "Thank you for using the Library Management System!")
			return nil
		default:
			fmt.Fprintln(s.out, "Unknown command. Type one of the available commands listed above.")
		}
	}
}

// ask prints label when prompting and reads one trimmed line.
func (s *shell) ask(label string) (string, bool) {
	if s.prompt {
		fmt.Fprint(s.out, label)
	}
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

// askAll reads one line per label, stopping at end of input.
func (s *shell) askAll(labels ...string) ([]string, bool) {
	vals := make([]string, 0, len(labels))
	for _, l := range labels {
		v, ok := s.ask(l)
		if !ok {
			return nil, false
		}
		vals = append(vals, v)
	}
	return vals, true
}

func (s *shell) handleAddBook() {
	v, ok := s.askAll("Title: ", "Author: ", "ISBN: ")
	if !ok {
		return
	}
	res := s.mgr.AddBook(v[0], v[1], v[2])
	s.renderResult(res.OK, res.Message)
}

func (s *shell) handleAddMember() {
	v, ok := s.askAll("Name: ", "Member ID (e.g. AB1234): ")
	if !ok {
		return
	}
	res := s.mgr.RegisterMember(v[0], v[1])
	s.renderResult(res.OK, res.Message)
}

func (s *shell) handleMemberDetails() {
	id, ok := s.ask("Member ID: ")
	if !ok {
		return
	}
	m, found := s.mgr.Member(id)
	if !found {
		s.renderResult(false, "Member not found")
		return
	}
	s.renderMember(m)
}

func (s *shell) handleSearch() {
	q, ok := s.ask("Search query: ")
	if !ok {
		return
	}
	s.renderBooks("Found Books", s.mgr.SearchBooks(q), "No books found.")
}

func (s *shell) handleBorrow() {
	v, ok := s.askAll("Member ID: ", "Book ISBN: ")
	if !ok {
		return
	}
	res := s.mgr.BorrowBook(v[0], v[1])
	if !res.OK {
		s.renderResult(false, res.Message)
		return
	}
	due, _ := res.Data.DueDate()
	s.renderResult(true, fmt.Sprintf("%s. Due %s.", res.Message, due.Format(dateLayout)))
}

func (s *shell) handleReturn() {
	v, ok := s.askAll("Member ID: ", "Book ISBN: ")
	if !ok {
		return
	}
	res := s.mgr.ReturnBook(v[0], v[1])
	if !res.OK {
		s.renderResult(false, res.Message)
		return
	}
	msg := res.Message
	if res.Data.Fine.IsPositive() {
		msg = fmt.Sprintf("%s. %d days overdue, fine: %s", msg, res.Data.DaysOverdue, money(res.Data.Fine))
	}
	s.renderResult(true, msg)
}

func (s *shell) handleFines() {
	id, ok := s.ask("Member ID: ")
	if !ok {
		return
	}
	st, found := s.mgr.FineStatement(id, s.mgr.Now())
	if !found {
		s.renderResult(false, "Member not found")
		return
	}
	s.renderStatement(st)
}

func (s *shell) handleHistory() {
	id, ok := s.ask("Member ID: ")
	if !ok {
		return
	}
	if _, found := s.mgr.Member(id); !found {
		s.renderResult(false, "Member not found")
		return
	}
	loans, err := s.mgr.History(id)
	if err != nil {
		s.renderResult(false, fmt.Sprintf("Error retrieving history: %v", err))
		return
	}
	s.renderHistory(id, loans)
}
