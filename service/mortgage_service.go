package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bdowdell/cuffnote/domain"
	"github.com/bdowdell/cuffnote/repository"
)

const dateLayout = "2006-01-02"

// roundTo2Decimals rounds a float64 to 2 decimal places.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

type MortgageService struct {
	repo  repository.ScheduleRepository
	cache repository.CacheRepository
}

// NewMortgageService creates a new MortgageService with the given
// repository and cache.
func NewMortgageService(repo repository.ScheduleRepository,
	cache repository.CacheRepository,
) *MortgageService {
	return &MortgageService{repo: repo, cache: cache}
}

// CalculateSchedule computes the full amortization schedule for a base
// fixed-rate loan.
func (s *MortgageService) CalculateSchedule(
	input domain.MortgageInput,
) (domain.ScheduleResult, error) {

	m, err := s.buildMortgage(input)
	if err != nil {
		return domain.ScheduleResult{}, err
	}

	result := buildScheduleResult(m)
	s.store(cacheKey(input), input, result.Summary)

	return result, nil
}

// CalculatePrepaymentSchedule computes the schedule with extra monthly
// principal and/or an annual lump payment layered on the base loan.
func (s *MortgageService) CalculatePrepaymentSchedule(
	input domain.PrepaymentInput,
) (domain.ScheduleResult, error) {

	m, err := s.buildMortgage(input.MortgageInput)
	if err != nil {
		return domain.ScheduleResult{}, err
	}

	if input.ExtraAmount != 0 || input.ExtraStartDate != "" {
		extraStart := m.StartDate
		if input.ExtraStartDate != "" {
			extraStart, err = parseDate(input.ExtraStartDate)
			if err != nil {
				return domain.ScheduleResult{}, err
			}
		}
		extra, err := domain.NewExtraMonthlyPrincipal(m, decimal.NewFromFloat(input.ExtraAmount), extraStart)
		if err != nil {
			return domain.ScheduleResult{}, err
		}
		m = extra.Mortgage
	}

	if input.LumpAmount != 0 || input.LumpMonth != 0 {
		lump, err := domain.NewAnnualLumpPayment(m, decimal.NewFromFloat(input.LumpAmount), time.Month(input.LumpMonth))
		if err != nil {
			return domain.ScheduleResult{}, err
		}
		m = lump.Mortgage
	}

	result := buildScheduleResult(m)
	s.store(prepaymentCacheKey(input), input.MortgageInput, result.Summary)

	return result, nil
}

// Summary returns only the scalar results, served from the cache when the
// same terms have been computed before.
func (s *MortgageService) Summary(
	input domain.MortgageInput,
) (domain.ScheduleSummary, error) {

	if raw, ok := s.cache.Get(cacheKey(input)); ok {
		var summary domain.ScheduleSummary
		if err := json.Unmarshal([]byte(raw), &summary); err == nil {
			return summary, nil
		}
	}

	result, err := s.CalculateSchedule(input)
	if err != nil {
		return domain.ScheduleSummary{}, err
	}
	return result.Summary, nil
}

func (s *MortgageService) buildMortgage(input domain.MortgageInput) (*domain.Mortgage, error) {
	if input.Principal > MaxLoanAmount {
		return nil, fmt.Errorf("%w: principal exceeds the maximum of $%.2f", domain.ErrInvalidInput, MaxLoanAmount)
	}
	if input.AnnualRate > MaxAnnualRate {
		return nil, fmt.Errorf("%w: annual rate exceeds the maximum of %.0f%%", domain.ErrInvalidInput, MaxAnnualRate*100)
	}
	if input.TermMonths > MaxTermMonths {
		return nil, fmt.Errorf("%w: term exceeds the maximum of %d months", domain.ErrInvalidInput, MaxTermMonths)
	}

	startDate, err := parseDate(input.StartDate)
	if err != nil {
		return nil, err
	}

	return domain.NewMortgage(
		decimal.NewFromFloat(input.Principal),
		decimal.NewFromFloat(input.AnnualRate),
		input.TermMonths,
		startDate,
	)
}

// store writes the summary through to the cache and the repository. Neither
// failure is critical.
func (s *MortgageService) store(key string, input domain.MortgageInput, summary domain.ScheduleSummary) {
	if data, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(key, string(data)); err != nil {
			slog.Warn("failed to cache schedule summary", "key", key, "error", err)
		}
	}
	if err := s.repo.Save(input, summary); err != nil {
		slog.Warn("failed to save schedule calculation", "error", err)
	}
}

func buildScheduleResult(m *domain.Mortgage) domain.ScheduleResult {
	entries := make([]domain.ScheduleRow, 0, m.TermMonths)
	totalInterest := decimal.Zero
	totalPrincipal := decimal.Zero
	var last domain.AmortizationEntry

	for entry := range m.Schedule() {
		totalInterest = totalInterest.Add(entry.Interest)
		totalPrincipal = totalPrincipal.Add(entry.Principal).Add(entry.ExtraPrincipal)
		entries = append(entries, domain.ScheduleRow{
			Period:         entry.Period,
			PaymentDate:    entry.PaymentDate.Format(dateLayout),
			Payment:        entry.Payment.InexactFloat64(),
			InterestPaid:   entry.Interest.InexactFloat64(),
			PrincipalPaid:  entry.Principal.InexactFloat64(),
			ExtraPrincipal: entry.ExtraPrincipal.InexactFloat64(),
			EndingBalance:  entry.EndingBalance.InexactFloat64(),
		})
		last = entry
	}

	return domain.ScheduleResult{
		Summary: domain.ScheduleSummary{
			MonthlyPayment: m.MonthlyPayment().InexactFloat64(),
			NumPayments:    len(entries),
			PayoffDate:     last.PaymentDate.Format(dateLayout),
			TotalPrincipal: totalPrincipal.InexactFloat64(),
			TotalInterest:  totalInterest.InexactFloat64(),
			TotalCost:      totalPrincipal.Add(totalInterest).InexactFloat64(),
		},
		Entries: entries,
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: dates must be formatted YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return t, nil
}

func cacheKey(input domain.MortgageInput) string {
	return fmt.Sprintf("mortgage:%.2f:%.6f:%d:%s",
		input.Principal, input.AnnualRate, input.TermMonths, input.StartDate)
}

func prepaymentCacheKey(input domain.PrepaymentInput) string {
	return fmt.Sprintf("prepayment:%.2f:%.6f:%d:%s:%.2f:%s:%.2f:%d",
		input.Principal, input.AnnualRate, input.TermMonths, input.StartDate,
		input.ExtraAmount, input.ExtraStartDate, input.LumpAmount, input.LumpMonth)
}
