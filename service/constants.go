package service

const (
	MaxLoanAmount = 1_000_000_000.0 // 1 billion
	MaxAnnualRate = 1.0             // 100% nominal annual rate
	MaxTermMonths = 600             // 50 years

	// Limits for the extra-amount recommendation sweep
	DefaultRecommendationStep   = 50.0
	MaxRecommendationCandidates = 200
)
