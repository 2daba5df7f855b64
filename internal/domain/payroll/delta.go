package payroll

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type DeltaKind string

const (
	DeltaIncentive DeltaKind = "incentive"
	DeltaArrears   DeltaKind = "arrears"
	DeltaFine      DeltaKind = "fine"
	DeltaAdvance   DeltaKind = "advanced_salary"
)

const DeltaStatusApproved = "Approved"

// DeltaEntry is one salary adjustment candidate. For advances Amount is the
// installment due in this run.
type DeltaEntry struct {
	ID        string          `json:"id"`
	Kind      DeltaKind       `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date"`
	Status    string          `json:"status"`
	Processed bool            `json:"processed"`
	Reason    *string         `json:"reason,omitempty"`
}

// Period is an inclusive range of calendar dates.
type Period struct {
	From time.Time
	To   time.Time
}

// MonthPeriod spans the first to the last day of month/year.
func MonthPeriod(month, year int, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return Period{From: from, To: from.AddDate(0, 1, -1)}
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Contains compares calendar dates only.
func (p Period) Contains(t time.Time) bool {
	k := dateKey(t)
	return k >= dateKey(p.From) && k <= dateKey(p.To)
}

// Reaches reports whether t falls on or before the period end.
func (p Period) Reaches(t time.Time) bool {
	return dateKey(t) <= dateKey(p.To)
}

type DeltaTotals struct {
	Incentives     decimal.Decimal `json:"incentives"`
	Arrears        decimal.Decimal `json:"arrears"`
	Fines          decimal.Decimal `json:"fines"`
	AdvancedSalary decimal.Decimal `json:"advanced_salary"`
}

type DeltaSet struct {
	Incentives     []DeltaEntry `json:"incentives"`
	Arrears        []DeltaEntry `json:"arrears"`
	Fines          []DeltaEntry `json:"fines"`
	AdvancedSalary []DeltaEntry `json:"advanced_salary"`
	Totals         DeltaTotals  `json:"totals"`
}

// IDs returns the IDs of every kept entry of kind.
func (s DeltaSet) IDs(kind DeltaKind) []string {
	var entries []DeltaEntry
	switch kind {
	case DeltaIncentive:
		entries = s.Incentives
	case DeltaArrears:
		entries = s.Arrears
	case DeltaFine:
		entries = s.Fines
	case DeltaAdvance:
		entries = s.AdvancedSalary
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

// AggregateDeltas keeps unprocessed Approved entries dated inside period and sums
// them per kind. Advances are kept from their date onward until recovered.
// Entries without a date are skipped and logged.
func AggregateDeltas(period Period, entries []DeltaEntry) DeltaSet {
	set := DeltaSet{
		Incentives:     []DeltaEntry{},
		Arrears:        []DeltaEntry{},
		Fines:          []DeltaEntry{},
		AdvancedSalary: []DeltaEntry{},
		Totals: DeltaTotals{
			Incentives:     decimal.Zero,
			Arrears:        decimal.Zero,
			Fines:          decimal.Zero,
			AdvancedSalary: decimal.Zero,
		},
	}

	for _, e := range entries {
		if e.Status != DeltaStatusApproved || e.Processed {
			continue
		}
		if e.Date == nil {
			slog.Warn("salary delta skipped: missing date", "kind", e.Kind, "id", e.ID)
			continue
		}

		if e.Kind == DeltaAdvance {
			if !period.Reaches(*e.Date) {
				continue
			}
		} else if !period.Contains(*e.Date) {
			continue
		}

		switch e.Kind {
		case DeltaIncentive:
			set.Incentives = append(set.Incentives, e)
			set.Totals.Incentives = set.Totals.Incentives.Add(e.Amount)
		case DeltaArrears:
			set.Arrears = append(set.Arrears, e)
			set.Totals.Arrears = set.Totals.Arrears.Add(e.Amount)
		case DeltaFine:
			set.Fines = append(set.Fines, e)
			set.Totals.Fines = set.Totals.Fines.Add(e.Amount)
		case DeltaAdvance:
			set.AdvancedSalary = append(set.AdvancedSalary, e)
			set.Totals.AdvancedSalary = set.Totals.AdvancedSalary.Add(e.Amount)
		default:
			slog.Warn("salary delta skipped: unknown kind", "kind", e.Kind, "id", e.ID)
		}
	}

	return set
}
