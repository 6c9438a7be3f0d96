package service

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/bdowdell/cuffnote/domain"
)

type PrepaymentService struct {
	mortgageService *MortgageService
}

func NewPrepaymentService(mortgageService *MortgageService) *PrepaymentService {
	return &PrepaymentService{mortgageService: mortgageService}
}

// Compare runs the base and prepayment schedules side by side and reports
// the interest and months the prepayment saves.
func (s *PrepaymentService) Compare(
	input domain.PrepaymentInput,
) (domain.PrepaymentComparison, error) {

	if input.ExtraAmount <= 0 && input.LumpAmount <= 0 {
		return domain.PrepaymentComparison{}, fmt.Errorf("%w: comparison needs a positive extra or lump amount", domain.ErrInvalidInput)
	}

	base, err := s.mortgageService.CalculateSchedule(input.MortgageInput)
	if err != nil {
		return domain.PrepaymentComparison{}, err
	}
	prepaid, err := s.mortgageService.CalculatePrepaymentSchedule(input)
	if err != nil {
		return domain.PrepaymentComparison{}, err
	}

	comparison := domain.PrepaymentComparison{
		Base:       base.Summary,
		Prepayment: prepaid.Summary,
	}
	comparison.Savings.InterestSaved = roundTo2Decimals(
		math.Max(0, base.Summary.TotalInterest-prepaid.Summary.TotalInterest),
	)
	comparison.Savings.MonthsSaved = base.Summary.NumPayments - prepaid.Summary.NumPayments

	return comparison, nil
}

// RecommendExtraAmount sweeps candidate extra monthly amounts up to the
// given maximum and ranks them by interest saved against payment burden.
func (s *PrepaymentService) RecommendExtraAmount(
	input domain.ExtraRecommendationInput,
) (domain.ExtraRecommendationResult, error) {

	if input.MaxExtraAmount <= 0 {
		return domain.ExtraRecommendationResult{}, fmt.Errorf("%w: max extra amount must be positive", domain.ErrInvalidInput)
	}
	step := input.Step
	if step < 0 {
		return domain.ExtraRecommendationResult{}, fmt.Errorf("%w: step must not be negative", domain.ErrInvalidInput)
	}
	if step == 0 {
		step = DefaultRecommendationStep
	}
	if input.MaxExtraAmount/step > MaxRecommendationCandidates {
		return domain.ExtraRecommendationResult{}, fmt.Errorf("%w: sweep exceeds the maximum of %d candidates", domain.ErrInvalidInput, MaxRecommendationCandidates)
	}

	base, err := s.mortgageService.CalculateSchedule(input.MortgageInput)
	if err != nil {
		return domain.ExtraRecommendationResult{}, err
	}

	recommendations := []domain.ExtraRecommendation{}

	for extra := step; extra <= input.MaxExtraAmount+1e-9; extra += step {
		prepaid, err := s.mortgageService.CalculatePrepaymentSchedule(domain.PrepaymentInput{
			MortgageInput: input.MortgageInput,
			ExtraAmount:   extra,
		})
		if err != nil {
			slog.Warn("failed to calculate prepayment schedule", "extra_amount", extra, "error", err)
			continue
		}

		recommendations = append(recommendations, domain.ExtraRecommendation{
			ExtraAmount:   roundTo2Decimals(extra),
			InterestSaved: roundTo2Decimals(base.Summary.TotalInterest - prepaid.Summary.TotalInterest),
			MonthsSaved:   base.Summary.NumPayments - prepaid.Summary.NumPayments,
			PayoffDate:    prepaid.Summary.PayoffDate,
		})
	}

	if len(recommendations) == 0 {
		return domain.ExtraRecommendationResult{}, fmt.Errorf("%w: no viable extra amounts below $%.2f", domain.ErrInvalidInput, input.MaxExtraAmount)
	}

	// Score 0-10: weight interest saved against the extra monthly burden.
	maxSaved := 0.0
	for _, r := range recommendations {
		if r.InterestSaved > maxSaved {
			maxSaved = r.InterestSaved
		}
	}
	for i := range recommendations {
		interestScore := 0.0
		if maxSaved > 0 {
			interestScore = 10.0 * recommendations[i].InterestSaved / maxSaved
		}
		burdenScore := 10.0 * (1.0 - recommendations[i].ExtraAmount/input.MaxExtraAmount)
		recommendations[i].Score = roundTo2Decimals(0.7*interestScore + 0.3*burdenScore)
	}

	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	return domain.ExtraRecommendationResult{
		RecommendedExtraAmount: recommendations[0].ExtraAmount,
		Recommendations:        recommendations,
	}, nil
}
