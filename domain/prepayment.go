package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExtraMonthlyPrincipal layers a fixed extra principal payment on top of a
// mortgage, applied every period whose payment date falls on or after
// ExtraStartDate. The scheduled monthly payment is unchanged; the extra
// principal only shortens the realized payoff trajectory.
type ExtraMonthlyPrincipal struct {
	*Mortgage
	ExtraAmount    decimal.Decimal
	ExtraStartDate time.Time
}

// NewExtraMonthlyPrincipal wraps the mortgage without mutating it. An extra
// amount of zero reproduces the base schedule exactly. The extra start date
// may fall mid-loan-life; a date between two scheduled payment dates takes
// effect on the first payment date on or after it.
func NewExtraMonthlyPrincipal(m *Mortgage, extraAmount decimal.Decimal, extraStartDate time.Time) (*ExtraMonthlyPrincipal, error) {
	if extraAmount.Sign() < 0 {
		return nil, fmt.Errorf("%w: extra amount must not be negative", ErrInvalidInput)
	}
	if extraStartDate.Before(m.StartDate) {
		return nil, fmt.Errorf("%w: extra principal cannot start before the loan does", ErrInvalidInput)
	}
	x := &ExtraMonthlyPrincipal{
		Mortgage:       m.clone(),
		ExtraAmount:    extraAmount.Round(2),
		ExtraStartDate: extraStartDate,
	}
	amount := x.ExtraAmount
	start := x.ExtraStartDate
	x.reducers = append(x.reducers, func(paymentDate time.Time, remaining decimal.Decimal) decimal.Decimal {
		if paymentDate.Before(start) {
			return decimal.Zero
		}
		if amount.GreaterThan(remaining) {
			return remaining
		}
		return amount
	})
	return x, nil
}

// AnnualLumpPayment layers a once-a-year lump principal payment on top of a
// mortgage, applied in the period whose payment date falls in LumpMonth.
// Wrapping an ExtraMonthlyPrincipal's Mortgage composes both behaviors.
type AnnualLumpPayment struct {
	*Mortgage
	LumpAmount decimal.Decimal
	LumpMonth  time.Month
}

// NewAnnualLumpPayment wraps the mortgage without mutating it.
func NewAnnualLumpPayment(m *Mortgage, lumpAmount decimal.Decimal, lumpMonth time.Month) (*AnnualLumpPayment, error) {
	if lumpAmount.Sign() < 0 {
		return nil, fmt.Errorf("%w: lump amount must not be negative", ErrInvalidInput)
	}
	if lumpMonth < time.January || lumpMonth > time.December {
		return nil, fmt.Errorf("%w: lump month must be a calendar month", ErrInvalidInput)
	}
	a := &AnnualLumpPayment{
		Mortgage:   m.clone(),
		LumpAmount: lumpAmount.Round(2),
		LumpMonth:  lumpMonth,
	}
	amount := a.LumpAmount
	month := a.LumpMonth
	a.reducers = append(a.reducers, func(paymentDate time.Time, remaining decimal.Decimal) decimal.Decimal {
		if paymentDate.Month() != month {
			return decimal.Zero
		}
		if amount.GreaterThan(remaining) {
			return remaining
		}
		return amount
	})
	return a, nil
}
