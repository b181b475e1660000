package bonds

import (
	"fmt"
	"time"

	"github.com/meenmo/bondval/bond"
)

// Terms mirrors a reference-data feed row where coupon and yield are
// quoted in percent (e.g. 4.25 for 4.25%) and dates are YYYY-MM-DD
// strings. KtFactorPct and PValuePct stay percent-scaled, matching how
// inflation index factors are published.
type Terms struct {
	SettlementDate string
	MaturityDate   string
	CouponPct      float64
	YieldPct       float64
	FaceValue      float64
	Frequency      int
	DayCount       float64
	PValuePct      float64
	KtFactorPct    float64
}

// ToInput converts a feed row into a bond.ValuationInput, translating
// percent-quoted rates to decimals. Zero FaceValue/Frequency/DayCount
// pass through and take the bond package defaults.
func (t Terms) ToInput() (bond.ValuationInput, error) {
	settle, err := time.Parse("2006-01-02", t.SettlementDate)
	if err != nil {
		return bond.ValuationInput{}, fmt.Errorf("invalid settlement_date %q: %w", t.SettlementDate, err)
	}
	maturity, err := time.Parse("2006-01-02", t.MaturityDate)
	if err != nil {
		return bond.ValuationInput{}, fmt.Errorf("invalid maturity_date %q: %w", t.MaturityDate, err)
	}

	return bond.ValuationInput{
		Settlement: settle,
		Maturity:   maturity,
		Coupon:     t.CouponPct / 100.0,
		Yield:      t.YieldPct / 100.0,
		FaceValue:  t.FaceValue,
		Frequency:  t.Frequency,
		DayCount:   t.DayCount,
		PValue:     t.PValuePct,
		KtFactor:   t.KtFactorPct,
	}, nil
}
