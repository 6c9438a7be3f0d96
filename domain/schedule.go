package domain

// MortgageInput is the wire shape of a base loan request. Dates travel as
// YYYY-MM-DD strings; the rate is a fraction (0.065 for 6.5%).
type MortgageInput struct {
	Principal  float64 `json:"principal"`
	AnnualRate float64 `json:"annual_rate"`
	TermMonths int     `json:"term_months"`
	StartDate  string  `json:"start_date"`
}

// PrepaymentInput extends MortgageInput with the optional prepayment knobs.
// An empty ExtraStartDate means extra principal starts with the loan; a
// LumpMonth of zero means no annual lump payment.
type PrepaymentInput struct {
	MortgageInput
	ExtraAmount    float64 `json:"extra_amount"`
	ExtraStartDate string  `json:"extra_start_date,omitempty"`
	LumpAmount     float64 `json:"lump_amount,omitempty"`
	LumpMonth      int     `json:"lump_month,omitempty"`
}

// ScheduleRow is one period of a computed schedule.
type ScheduleRow struct {
	Period         int     `json:"period"`
	PaymentDate    string  `json:"payment_date"`
	Payment        float64 `json:"payment"`
	InterestPaid   float64 `json:"interest_paid"`
	PrincipalPaid  float64 `json:"principal_paid"`
	ExtraPrincipal float64 `json:"extra_principal"`
	EndingBalance  float64 `json:"ending_balance"`
}

// ScheduleSummary holds the scalar results of a schedule.
type ScheduleSummary struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	NumPayments    int     `json:"num_payments"`
	PayoffDate     string  `json:"payoff_date"`
	TotalPrincipal float64 `json:"total_principal"`
	TotalInterest  float64 `json:"total_interest"`
	TotalCost      float64 `json:"total_cost"`
}

// ScheduleResult is a full schedule plus its summary.
type ScheduleResult struct {
	Summary ScheduleSummary `json:"summary"`
	Entries []ScheduleRow   `json:"entries"`
}

// PrepaymentComparison reports a base schedule against a prepayment schedule
// and what the prepayment saves.
type PrepaymentComparison struct {
	Base       ScheduleSummary `json:"base"`
	Prepayment ScheduleSummary `json:"prepayment"`
	Savings    struct {
		InterestSaved float64 `json:"interest_saved"`
		MonthsSaved   int     `json:"months_saved"`
	} `json:"savings"`
}

// ExtraRecommendationInput asks for the extra monthly amount sweep: every
// candidate from Step up to MaxExtraAmount is evaluated against the loan.
type ExtraRecommendationInput struct {
	MortgageInput
	MaxExtraAmount float64 `json:"max_extra_amount"`
	Step           float64 `json:"step,omitempty"`
}

// ExtraRecommendation is one scored candidate extra amount.
type ExtraRecommendation struct {
	ExtraAmount   float64 `json:"extra_amount"`
	InterestSaved float64 `json:"interest_saved"`
	MonthsSaved   int     `json:"months_saved"`
	PayoffDate    string  `json:"payoff_date"`
	Score         float64 `json:"score"`
}

// ExtraRecommendationResult ranks the candidates, best first.
type ExtraRecommendationResult struct {
	RecommendedExtraAmount float64               `json:"recommended_extra_amount"`
	Recommendations        []ExtraRecommendation `json:"recommendations"`
}
