package library

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Seed is the starting catalog read from YAML at startup.
type Seed struct {
	Books   []SeedBook   `yaml:"books" json:"books"`
	Members []SeedMember `yaml:"members" json:"members"`
	Loans   []SeedLoan   `yaml:"loans" json:"loans"`
}

type SeedBook struct {
	Title  string `yaml:"title" json:"title"`
	Author string `yaml:"author" json:"author"`
	ISBN   string `yaml:"isbn" json:"isbn"`
}

type SeedMember struct {
	Name string `yaml:"name" json:"name"`
	ID   string `yaml:"id" json:"id"`
}

// SeedLoan lends a seeded book to a seeded member. Due is a calendar date
// (2006-01-02); left empty the normal loan period applies.
type SeedLoan struct {
	MemberID string `yaml:"member" json:"member"`
	ISBN     string `yaml:"isbn" json:"isbn"`
	Due      string `yaml:"due" json:"due"`
}

// SeedRejection is a seed entry the library refused.
type SeedRejection struct {
	Kind   string `json:"kind"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// SeedReport summarises ApplySeed.
type SeedReport struct {
	Books    int             `json:"books"`
	Members  int             `json:"members"`
	Lent     []SeedLoan      `json:"lent"`
	Rejected []SeedRejection `json:"rejected"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(b)
}

// ParseSeed decodes seed YAML, rejecting unknown keys.
func ParseSeed(b []byte) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// ApplySeed adds every book and member, then the loans. Bad entries are
// reported and skipped; the rest still load.
func (l *Library) ApplySeed(seed Seed) SeedReport {
	var report SeedReport

	for _, sb := range seed.Books {
		book, err := NewBook(sb.Title, sb.Author, sb.ISBN)
		if err == nil {
			if res := l.AddBook(book); !res.OK {
				err = res.Err
			}
		}
		if err != nil {
			report.Rejected = append(report.Rejected, SeedRejection{Kind: "book", Key: sb.ISBN, Reason: err.Error()})
			continue
		}
		report.Books++
	}

	for _, sm := range seed.Members {
		member, err := NewMember(sm.Name, sm.ID)
		if err == nil {
			if res := l.RegisterMember(member); !res.OK {
				err = res.Err
			}
		}
		if err != nil {
			report.Rejected = append(report.Rejected, SeedRejection{Kind: "member", Key: sm.ID, Reason: err.Error()})
			continue
		}
		report.Members++
	}

	for _, sl := range seed.Loans {
		key := sl.MemberID + "/" + sl.ISBN
		var res Result[*Book]
		if sl.Due == "" {
			res = l.BorrowBook(sl.MemberID, sl.ISBN)
		} else {
			due, err := time.ParseInLocation(time.DateOnly, sl.Due, time.Local)
			if err != nil {
				report.Rejected = append(report.Rejected, SeedRejection{Kind: "loan", Key: key, Reason: "Invalid due date " + sl.Due})
				continue
			}
			res = l.BorrowBookUntil(sl.MemberID, sl.ISBN, due)
		}
		if !res.OK {
			report.Rejected = append(report.Rejected, SeedRejection{Kind: "loan", Key: key, Reason: res.Message})
			continue
		}
		report.Lent = append(report.Lent, sl)
	}

	return report
}
