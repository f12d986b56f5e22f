package library

import (
	"time"

	"github.com/shopspring/decimal"
)

const tierDays = 7

var (
	midTierMultiplier  = decimal.RequireFromString("1.5")
	highTierMultiplier = decimal.RequireFromString("2.0")
)

// FineCalculator prices overdue books. Days 1-7 cost the base rate, days
// 8-14 one and a half times it, every later day twice it; the total per book
// never exceeds the configured maximum.
type FineCalculator struct {
	baseRate       decimal.Decimal
	maxFinePerBook decimal.Decimal
}

// NewFineCalculator requires both amounts to be positive.
func NewFineCalculator(baseRate, maxFinePerBook decimal.Decimal) (*FineCalculator, error) {
	if !baseRate.IsPositive() {
		return nil, invalid("base_rate", "Base rate must be greater than zero")
	}
	if !maxFinePerBook.IsPositive() {
		return nil, invalid("max_fine_per_book", "Maximum fine must be greater than zero")
	}
	return &FineCalculator{baseRate: baseRate, maxFinePerBook: maxFinePerBook}, nil
}

// DefaultFineCalculator charges 0.50 a day up to 30.00 per book.
func DefaultFineCalculator() *FineCalculator {
	return &FineCalculator{
		baseRate:       decimal.RequireFromString("0.50"),
		maxFinePerBook: decimal.RequireFromString("30.00"),
	}
}

func (fc *FineCalculator) BaseRate() decimal.Decimal       { return fc.baseRate }
func (fc *FineCalculator) MaxFinePerBook() decimal.Decimal { return fc.maxFinePerBook }

// CalculateFine returns the fine owed on book as of asOf.
func (fc *FineCalculator) CalculateFine(book *Book, asOf time.Time) decimal.Decimal {
	days := DaysOverdue(book, asOf)
	if days == 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	first := min(tierDays, days)
	total = total.Add(fc.baseRate.Mul(decimal.NewFromInt(int64(first))))
	days -= first

	if days > 0 {
		mid := min(tierDays, days)
		total = total.Add(fc.baseRate.Mul(midTierMultiplier).Mul(decimal.NewFromInt(int64(mid))))
		days -= mid
	}
	if days > 0 {
		total = total.Add(fc.baseRate.Mul(highTierMultiplier).Mul(decimal.NewFromInt(int64(days))))
	}

	return decimal.Min(total, fc.maxFinePerBook)
}

// CalculateTotalFines sums the fines on every book member has overdue.
func (fc *FineCalculator) CalculateTotalFines(member *Member, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	if member == nil {
		return total
	}
	for _, b := range member.OverdueBooks(asOf) {
		total = total.Add(fc.CalculateFine(b, asOf))
	}
	return total
}

// FineDetails returns whole days overdue and the fine for them.
func (fc *FineCalculator) FineDetails(book *Book, asOf time.Time) (int, decimal.Decimal) {
	days := DaysOverdue(book, asOf)
	if days == 0 {
		return 0, decimal.Zero
	}
	return days, fc.CalculateFine(book, asOf)
}

// DaysOverdue counts full 24h periods elapsed since the due date; partial
// days are dropped. Books with no due date, or not yet past it, give 0.
func DaysOverdue(book *Book, asOf time.Time) int {
	if book == nil {
		return 0
	}
	due, ok := book.DueDate()
	if !ok || !asOf.After(due) {
		return 0
	}
	return int(asOf.Sub(due) / (24 * time.Hour))
}
