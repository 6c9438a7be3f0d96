package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/bdowdell/cuffnote/domain"
	"github.com/bdowdell/cuffnote/repository"
)

type MockScheduleRepository struct {
	SaveCalled bool
	SaveCount  int
	ForceError bool
}

func (m *MockScheduleRepository) Save(
	input domain.MortgageInput,
	summary domain.ScheduleSummary,
) error {
	m.SaveCalled = true
	m.SaveCount++
	if m.ForceError {
		return errors.New("save error")
	}
	return nil
}

func thirtyYearFixed() domain.MortgageInput {
	return domain.MortgageInput{
		Principal:  200000,
		AnnualRate: 0.06,
		TermMonths: 360,
		StartDate:  "2024-01-01",
	}
}

func TestCalculateSchedule_ThirtyYearFixed(t *testing.T) {

	mockRepo := &MockScheduleRepository{}
	service := NewMortgageService(mockRepo, repository.NewMockCache())

	result, err := service.CalculateSchedule(thirtyYearFixed())

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary.MonthlyPayment != 1199.10 {
		t.Errorf("expected payment 1199.10, got %.2f", result.Summary.MonthlyPayment)
	}
	if result.Summary.NumPayments != 360 {
		t.Errorf("expected 360 payments, got %d", result.Summary.NumPayments)
	}
	if result.Summary.PayoffDate != "2053-12-01" {
		t.Errorf("expected payoff 2053-12-01, got %s", result.Summary.PayoffDate)
	}
	if len(result.Entries) != 360 {
		t.Errorf("expected 360 entries, got %d", len(result.Entries))
	}
	if last := result.Entries[len(result.Entries)-1]; last.EndingBalance != 0 {
		t.Errorf("expected zero final balance, got %.2f", last.EndingBalance)
	}

	if !mockRepo.SaveCalled {
		t.Errorf("expected repository Save to be called")
	}
}

func TestCalculateSchedule_ZeroRate(t *testing.T) {

	mockRepo := &MockScheduleRepository{}
	service := NewMortgageService(mockRepo, repository.NewMockCache())

	result, err := service.CalculateSchedule(domain.MortgageInput{
		Principal:  1200,
		AnnualRate: 0,
		TermMonths: 12,
		StartDate:  "2024-01-01",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary.MonthlyPayment != 100.0 {
		t.Errorf("expected payment 100.00, got %.2f", result.Summary.MonthlyPayment)
	}
	if result.Summary.TotalInterest != 0 {
		t.Errorf("expected no interest, got %.2f", result.Summary.TotalInterest)
	}
}

func TestCalculateSchedule_InvalidInput(t *testing.T) {

	tests := []struct {
		name  string
		input domain.MortgageInput
	}{
		{"zero principal", domain.MortgageInput{Principal: 0, AnnualRate: 0.05, TermMonths: 360, StartDate: "2024-01-01"}},
		{"negative rate", domain.MortgageInput{Principal: 100000, AnnualRate: -0.01, TermMonths: 360, StartDate: "2024-01-01"}},
		{"zero term", domain.MortgageInput{Principal: 100000, AnnualRate: 0.05, TermMonths: 0, StartDate: "2024-01-01"}},
		{"term above maximum", domain.MortgageInput{Principal: 100000, AnnualRate: 0.05, TermMonths: 601, StartDate: "2024-01-01"}},
		{"principal above maximum", domain.MortgageInput{Principal: MaxLoanAmount + 1, AnnualRate: 0.05, TermMonths: 360, StartDate: "2024-01-01"}},
		{"malformed date", domain.MortgageInput{Principal: 100000, AnnualRate: 0.05, TermMonths: 360, StartDate: "01/02/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockScheduleRepository{}
			service := NewMortgageService(mockRepo, repository.NewMockCache())

			_, err := service.CalculateSchedule(tt.input)

			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if mockRepo.SaveCalled {
				t.Errorf("repository Save should NOT be called")
			}
		})
	}
}

func TestCalculateSchedule_SaveErrorIsNotFatal(t *testing.T) {

	mockRepo := &MockScheduleRepository{ForceError: true}
	service := NewMortgageService(mockRepo, repository.NewMockCache())

	_, err := service.CalculateSchedule(thirtyYearFixed())

	if err != nil {
		t.Fatalf("expected success despite save failure, got %v", err)
	}
}

func TestSummary_ServedFromCache(t *testing.T) {

	mockRepo := &MockScheduleRepository{}
	service := NewMortgageService(mockRepo, repository.NewMockCache())

	first, err := service.Summary(thirtyYearFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := service.Summary(thirtyYearFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Errorf("cached summary differs from computed one")
	}
	if mockRepo.SaveCount != 1 {
		t.Errorf("expected one computation, repository saw %d saves", mockRepo.SaveCount)
	}
}

func TestCalculateSchedule_ConcurrentRequests(t *testing.T) {

	// The in-memory repository and cache back the default serving path,
	// so they must survive parallel requests.
	repo := repository.NewScheduleRepositoryMemory()
	service := NewMortgageService(repo, repository.NewMockCache())

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if g%2 == 0 {
					if _, err := service.CalculateSchedule(thirtyYearFixed()); err != nil {
						t.Errorf("unexpected error: %v", err)
						return
					}
				} else {
					if _, err := service.Summary(thirtyYearFixed()); err != nil {
						t.Errorf("unexpected error: %v", err)
						return
					}
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestCalculatePrepaymentSchedule_ZeroExtraMatchesBase(t *testing.T) {

	mockRepo := &MockScheduleRepository{}
	service := NewMortgageService(mockRepo, repository.NewMockCache())

	base, err := service.CalculateSchedule(thirtyYearFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prepaid, err := service.CalculatePrepaymentSchedule(domain.PrepaymentInput{
		MortgageInput: thirtyYearFixed(),
		ExtraAmount:   0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(base.Entries) != len(prepaid.Entries) {
		t.Fatalf("schedule lengths differ: %d vs %d", len(base.Entries), len(prepaid.Entries))
	}
	for i := range base.Entries {
		if base.Entries[i] != prepaid.Entries[i] {
			t.Fatalf("schedules diverge at period %d", i+1)
		}
	}
}

func TestCalculatePrepaymentSchedule_ShortensLoan(t *testing.T) {

	mockRepo := &MockScheduleRepository{}
	service := NewMortgageService(mockRepo, repository.NewMockCache())

	base, err := service.CalculateSchedule(thirtyYearFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prepaid, err := service.CalculatePrepaymentSchedule(domain.PrepaymentInput{
		MortgageInput: thirtyYearFixed(),
		ExtraAmount:   500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prepaid.Summary.NumPayments >= base.Summary.NumPayments {
		t.Errorf("expected fewer payments: base %d, prepaid %d",
			base.Summary.NumPayments, prepaid.Summary.NumPayments)
	}
	if prepaid.Summary.TotalInterest >= base.Summary.TotalInterest {
		t.Errorf("expected less interest: base %.2f, prepaid %.2f",
			base.Summary.TotalInterest, prepaid.Summary.TotalInterest)
	}
	if prepaid.Summary.MonthlyPayment != base.Summary.MonthlyPayment {
		t.Errorf("scheduled payment must not change: base %.2f, prepaid %.2f",
			base.Summary.MonthlyPayment, prepaid.Summary.MonthlyPayment)
	}
}

func TestCalculatePrepaymentSchedule_WithAnnualLump(t *testing.T) {

	mockRepo := &MockScheduleRepository{}
	service := NewMortgageService(mockRepo, repository.NewMockCache())

	base, err := service.CalculateSchedule(thirtyYearFixed())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prepaid, err := service.CalculatePrepaymentSchedule(domain.PrepaymentInput{
		MortgageInput: thirtyYearFixed(),
		LumpAmount:    10000,
		LumpMonth:     12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prepaid.Summary.NumPayments >= base.Summary.NumPayments {
		t.Errorf("expected fewer payments: base %d, prepaid %d",
			base.Summary.NumPayments, prepaid.Summary.NumPayments)
	}
}

func TestCalculatePrepaymentSchedule_InvalidInput(t *testing.T) {

	tests := []struct {
		name  string
		input domain.PrepaymentInput
	}{
		{"negative extra", domain.PrepaymentInput{MortgageInput: thirtyYearFixed(), ExtraAmount: -100}},
		{"extra start before loan", domain.PrepaymentInput{MortgageInput: thirtyYearFixed(), ExtraAmount: 100, ExtraStartDate: "2020-01-01"}},
		{"lump month out of range", domain.PrepaymentInput{MortgageInput: thirtyYearFixed(), LumpAmount: 1000, LumpMonth: 13}},
		{"negative lump", domain.PrepaymentInput{MortgageInput: thirtyYearFixed(), LumpAmount: -1000, LumpMonth: 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockScheduleRepository{}
			service := NewMortgageService(mockRepo, repository.NewMockCache())

			_, err := service.CalculatePrepaymentSchedule(tt.input)

			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
