package analytics

import "github.com/Mujtaba19938/FINDASH/internal/model"

// Observation windows, in months.
const (
	BurnWindowMonths      = 3
	ForecastWindowMonths  = 6
	BaselineStartMonths   = 12
	BaselineEndMonths     = 6
	MinForecastMonths     = 1
	MaxForecastMonths     = 24
	DefaultForecastMonths = 6
	MinPercentChange      = -100
	MaxPercentChange      = 1000
	daysPerMonth          = 30
	// runwayInMonthsDays is where runway switches from days to months.
	runwayInMonthsDays = 365
)

// Comparison selects how a rung's limit is tested.
type Comparison int

const (
	// Above matches values strictly greater than the limit.
	Above Comparison = iota
	// AtLeast matches values greater than or equal to the limit.
	AtLeast
	// Below matches values strictly less than the limit.
	Below
)

func (c Comparison) match(value, limit float64) bool {
	switch c {
	case Above:
		return value > limit
	case AtLeast:
		return value >= limit
	case Below:
		return value < limit
	default:
		return false
	}
}

// Rung pairs a limit with the risk level it triggers.
type Rung struct {
	Level model.RiskLevel
	Limit float64
}

// Ladder maps a value to a risk level. Rungs are checked in order and the
// first match wins; no match is low risk.
type Ladder struct {
	Rungs []Rung
	Cmp   Comparison
}

// Level returns the risk level for value.
func (l Ladder) Level(value float64) model.RiskLevel {
	for _, rung := range l.Rungs {
		if l.Cmp.match(value, rung.Limit) {
			return rung.Level
		}
	}
	return model.RiskLow
}

// WeightRung pairs a limit with the score weight it contributes.
type WeightRung struct {
	Limit  float64
	Weight float64
}

// WeightLadder maps a value to a single score weight, first match wins.
type WeightLadder struct {
	Rungs []WeightRung
	Cmp   Comparison
}

// Weight returns the contribution of value, or zero when no rung matches.
func (w WeightLadder) Weight(value float64) float64 {
	for _, rung := range w.Rungs {
		if w.Cmp.match(value, rung.Limit) {
			return rung.Weight
		}
	}
	return 0
}

// Policy holds every threshold the engine applies.
type Policy struct {
	FixedKeywords []string

	BurnRate        Ladder
	Runway          Ladder
	SavingsRate     Ladder
	FixedShare      Ladder
	PaymentTotal    Ladder
	ForecastBalance Ladder
	AnomalyCount    Ladder
	Score           Ladder
	PurchaseImpact  Ladder
	// CashflowRunway applies only when simulated net cashflow is negative.
	CashflowRunway Ladder

	RunwayWeight     WeightLadder
	ObligationWeight WeightLadder
	BurnWeight       WeightLadder

	AnomalyMultiplier       float64
	AnomalyCap              int
	IncomeInstabilityWeight float64
	StableIncome            float64
	UnstableIncome          float64
	// ObligationsFactor flags upcoming payments above burn × factor.
	ObligationsFactor   float64
	HighBurn            float64
	VeryShortRunwayDays float64
	ShortRunwayDays     float64
	CrowdedPayments     int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		FixedKeywords: []string{
			"rent", "mortgage", "utilities", "insurance", "subscription",
			"loan", "debt", "tax", "phone", "internet", "electricity",
			"water", "gas", "health insurance", "car payment",
		},

		BurnRate: Ladder{Cmp: Above, Rungs: []Rung{
			{Limit: 10000, Level: model.RiskHigh},
			{Limit: 5000, Level: model.RiskMedium},
		}},
		Runway: Ladder{Cmp: Below, Rungs: []Rung{
			{Limit: 30, Level: model.RiskCritical},
			{Limit: 60, Level: model.RiskHigh},
			{Limit: 90, Level: model.RiskMedium},
		}},
		SavingsRate: Ladder{Cmp: Below, Rungs: []Rung{
			{Limit: 0, Level: model.RiskCritical},
			{Limit: 10, Level: model.RiskHigh},
			{Limit: 20, Level: model.RiskMedium},
		}},
		FixedShare: Ladder{Cmp: Above, Rungs: []Rung{
			{Limit: 80, Level: model.RiskHigh},
			{Limit: 60, Level: model.RiskMedium},
		}},
		PaymentTotal: Ladder{Cmp: Above, Rungs: []Rung{
			{Limit: 5000, Level: model.RiskHigh},
			{Limit: 2000, Level: model.RiskMedium},
		}},
		ForecastBalance: Ladder{Cmp: Below, Rungs: []Rung{
			{Limit: 0, Level: model.RiskCritical},
			{Limit: 1000, Level: model.RiskHigh},
			{Limit: 5000, Level: model.RiskMedium},
		}},
		AnomalyCount: Ladder{Cmp: Above, Rungs: []Rung{
			{Limit: 10, Level: model.RiskHigh},
			{Limit: 5, Level: model.RiskMedium},
		}},
		Score: Ladder{Cmp: AtLeast, Rungs: []Rung{
			{Limit: 0.75, Level: model.RiskCritical},
			{Limit: 0.5, Level: model.RiskHigh},
			{Limit: 0.25, Level: model.RiskMedium},
		}},
		PurchaseImpact: Ladder{Cmp: Above, Rungs: []Rung{
			{Limit: 20, Level: model.RiskHigh},
			{Limit: 10, Level: model.RiskMedium},
		}},
		CashflowRunway: Ladder{Cmp: Below, Rungs: []Rung{
			{Limit: 30, Level: model.RiskCritical},
			{Limit: 60, Level: model.RiskHigh},
		}},

		RunwayWeight: WeightLadder{Cmp: Below, Rungs: []WeightRung{
			{Limit: 30, Weight: 0.4},
			{Limit: 60, Weight: 0.3},
			{Limit: 90, Weight: 0.2},
			{Limit: 180, Weight: 0.1},
		}},
		ObligationWeight: WeightLadder{Cmp: Above, Rungs: []WeightRung{
			{Limit: 1.5, Weight: 0.2},
			{Limit: 1.0, Weight: 0.15},
			{Limit: 0.5, Weight: 0.1},
		}},
		BurnWeight: WeightLadder{Cmp: Above, Rungs: []WeightRung{
			{Limit: 10000, Weight: 0.2},
			{Limit: 5000, Weight: 0.15},
			{Limit: 2000, Weight: 0.1},
		}},

		AnomalyMultiplier:       2.0,
		AnomalyCap:              20,
		IncomeInstabilityWeight: 0.2,
		StableIncome:            1.0,
		UnstableIncome:          0.5,
		ObligationsFactor:       1.5,
		HighBurn:                10000,
		VeryShortRunwayDays:     30,
		ShortRunwayDays:         90,
		CrowdedPayments:         5,
	}
}

// paymentTypeRank orders payment types by urgency; unknown types sort last.
func paymentTypeRank(t model.PaymentType) int {
	switch t {
	case model.PaymentTypeDebt:
		return 1
	case model.PaymentTypeBill:
		return 2
	case model.PaymentTypeSubscription:
		return 3
	case model.PaymentTypeOther:
		return 4
	default:
		return 5
	}
}
