package domain

import (
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// Mortgage is a fixed-rate loan: principal, nominal annual rate (0.065 for
// 6.5%), term in monthly periods, and the date of the first payment. The
// monthly payment is derived once at construction and never changes.
type Mortgage struct {
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal
	TermMonths int
	StartDate  time.Time

	payment  decimal.Decimal
	reducers []principalReducer
}

// principalReducer is invoked once per period after the scheduled principal
// has been applied. It returns the extra principal to subtract, already
// clamped so the balance never goes negative.
type principalReducer func(paymentDate time.Time, remaining decimal.Decimal) decimal.Decimal

// AmortizationEntry is one period of a schedule. Amounts are rounded to
// cents; EndingBalance is exactly zero on the final entry.
type AmortizationEntry struct {
	Period         int
	PaymentDate    time.Time
	Payment        decimal.Decimal
	Interest       decimal.Decimal
	Principal      decimal.Decimal
	ExtraPrincipal decimal.Decimal
	EndingBalance  decimal.Decimal
}

// NewMortgage validates the loan terms and precomputes the monthly payment.
func NewMortgage(principal, annualRate decimal.Decimal, termMonths int, startDate time.Time) (*Mortgage, error) {
	if principal.Sign() <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive", ErrInvalidInput)
	}
	if annualRate.Sign() < 0 {
		return nil, fmt.Errorf("%w: annual rate must not be negative", ErrInvalidInput)
	}
	if termMonths <= 0 {
		return nil, fmt.Errorf("%w: term must be a positive number of months", ErrInvalidInput)
	}
	m := &Mortgage{
		Principal:  principal.Round(2),
		AnnualRate: annualRate,
		TermMonths: termMonths,
		StartDate:  startDate,
	}
	m.payment = amortizingPayment(m.Principal, m.monthlyRate(), termMonths)
	return m, nil
}

func (m *Mortgage) monthlyRate() decimal.Decimal {
	return m.AnnualRate.Div(twelve)
}

// MonthlyPayment returns the fixed scheduled payment, rounded to cents.
func (m *Mortgage) MonthlyPayment() decimal.Decimal {
	return m.payment
}

// amortizingPayment solves P*r / (1 - (1+r)^-n); the rate-free case
// degenerates to straight division.
func amortizingPayment(principal, monthlyRate decimal.Decimal, termMonths int) decimal.Decimal {
	n := decimal.NewFromInt(int64(termMonths))
	if monthlyRate.IsZero() {
		return principal.Div(n).Round(2)
	}
	growth := one.Add(monthlyRate).Pow(n)
	denominator := one.Sub(one.Div(growth))
	return principal.Mul(monthlyRate).Div(denominator).Round(2)
}

// Schedule returns the amortization schedule as a lazy, restartable
// sequence. Every range over it recomputes from the stored terms, so
// repeated and concurrent consumption is safe. The sequence stops at the
// period the balance reaches zero, which is before TermMonths whenever a
// principal reducer is attached.
func (m *Mortgage) Schedule() iter.Seq[AmortizationEntry] {
	return func(yield func(AmortizationEntry) bool) {
		balance := m.Principal
		monthlyRate := m.monthlyRate()
		for period := 1; period <= m.TermMonths; period++ {
			date := m.paymentDate(period)
			interest := balance.Mul(monthlyRate).Round(2)
			principalPaid := m.payment.Sub(interest)
			// The final period absorbs the rounding residual so the
			// balance lands on exactly zero.
			if period == m.TermMonths || principalPaid.GreaterThan(balance) {
				principalPaid = balance
			}
			balance = balance.Sub(principalPaid)
			extra := decimal.Zero
			for _, reduce := range m.reducers {
				applied := reduce(date, balance)
				balance = balance.Sub(applied)
				extra = extra.Add(applied)
			}
			entry := AmortizationEntry{
				Period:         period,
				PaymentDate:    date,
				Payment:        interest.Add(principalPaid),
				Interest:       interest,
				Principal:      principalPaid,
				ExtraPrincipal: extra,
				EndingBalance:  balance,
			}
			if !yield(entry) {
				return
			}
			if balance.IsZero() {
				return
			}
		}
	}
}

// paymentDate returns the date of the given 1-based period: the start date
// advanced period-1 calendar months, with the day-of-month preserved and
// clamped to the target month's last day (Jan 31 -> Feb 28 -> Mar 31).
func (m *Mortgage) paymentDate(period int) time.Time {
	y, mo, d := m.StartDate.Date()
	first := time.Date(y, mo+time.Month(period-1), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// PayoffDate returns the date of the final payment.
func (m *Mortgage) PayoffDate() time.Time {
	var last AmortizationEntry
	for entry := range m.Schedule() {
		last = entry
	}
	return last.PaymentDate
}

// NumPayments returns how many payments are actually made, which is less
// than TermMonths when extra principal shortens the loan.
func (m *Mortgage) NumPayments() int {
	count := 0
	for range m.Schedule() {
		count++
	}
	return count
}

// TotalInterest returns the interest paid over the life of the loan.
func (m *Mortgage) TotalInterest() decimal.Decimal {
	total := decimal.Zero
	for entry := range m.Schedule() {
		total = total.Add(entry.Interest)
	}
	return total
}

// TotalPrincipalPaid returns scheduled plus extra principal, which equals
// the original principal.
func (m *Mortgage) TotalPrincipalPaid() decimal.Decimal {
	total := decimal.Zero
	for entry := range m.Schedule() {
		total = total.Add(entry.Principal).Add(entry.ExtraPrincipal)
	}
	return total
}

// TotalCost returns principal plus interest over the life of the loan.
func (m *Mortgage) TotalCost() decimal.Decimal {
	return m.TotalPrincipalPaid().Add(m.TotalInterest())
}

// clone copies the mortgage so wrapping constructors can attach reducers
// without mutating the wrapped value.
func (m *Mortgage) clone() *Mortgage {
	c := *m
	c.reducers = append([]principalReducer(nil), m.reducers...)
	return &c
}
