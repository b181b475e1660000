package bond

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/bondval/utils"
)

// Default quoting conventions applied when the corresponding
// ValuationInput field is left zero.
const (
	DefaultFaceValue = 100.0
	DefaultFrequency = 2
	DefaultDayCount  = 365.0
)

// exCouponRecordDays is the fixed record-date offset: a bond settling
// within this many days before the next coupon trades ex-coupon. This
// is a market convention constant, not a configuration knob.
const exCouponRecordDays = 10

var (
	ErrInvalidDateRange = errors.New("settlement date must be before maturity date")
	ErrInvalidFaceValue = errors.New("face value must be positive")
	ErrInvalidCoupon    = errors.New("coupon rate must be non-negative")
	ErrInvalidFrequency = errors.New("coupon frequency must be 1, 2, 4 or 12")
	ErrInvalidDayCount  = errors.New("day count must be positive")
	ErrInvalidYield     = errors.New("yield must be non-zero when full coupon periods remain")
)

// ValuationInput holds the parameters needed to price a fixed-coupon or
// inflation-indexed bond. Treasury bills are priced by leaving Coupon
// at zero.
type ValuationInput struct {
	// Settlement is the trade settlement date; the pricing reference date.
	Settlement time.Time
	// Maturity is the final redemption date. Must be after Settlement.
	Maturity time.Time
	// Coupon is the annual coupon rate as a decimal (e.g. 0.0425 for 4.25%).
	Coupon float64
	// Yield is the annual yield to maturity as a decimal.
	Yield float64
	// FaceValue is the redemption amount. Zero means DefaultFaceValue.
	FaceValue float64
	// Frequency is coupons per year (1, 2, 4 or 12). Zero means DefaultFrequency.
	Frequency int
	// DayCount is the assumed days per year for fractional-period math.
	// Zero means DefaultDayCount.
	DayCount float64
	// PValue is the inflation index base-period adjustment rate in
	// percent. Zero for nominal bonds.
	PValue float64
	// KtFactor is the current inflation index factor, percent-scaled
	// (e.g. 116.69). Zero for nominal bonds; the pricing floors the
	// resulting multiplier at 1.
	KtFactor float64
}

// Schedule is a read-only snapshot of the coupon schedule facts derived
// at construction.
type Schedule struct {
	// LastCoupon is the most recent coupon date at or before settlement.
	LastCoupon time.Time
	// NextCoupon is LastCoupon plus one coupon period.
	NextCoupon time.Time
	// FullPeriods is the number of full coupon periods remaining after
	// NextCoupon. Zero means only the terminal payment remains.
	FullPeriods int
	// CumCoupon reports whether settlement is entitled to the next
	// coupon (false inside the ex-coupon window).
	CumCoupon bool
	// DaysToNext is the day count from settlement to NextCoupon.
	DaysToNext int
	// PeriodDays is the day count of the current coupon period.
	PeriodDays int
}

// Valuation prices a single bond as of its settlement date.
//
// All schedule facts are derived eagerly by NewValuation and never
// change afterwards, so a Valuation may be shared across goroutines
// without coordination.
type Valuation struct {
	settle    time.Time
	maturity  time.Time
	coupon    float64
	yield     float64
	faceValue float64
	freq      int
	dayCount  float64
	pValue    float64
	ktFactor  float64

	lastCoupon time.Time
	nextCoupon time.Time
	n          int  // full coupon periods remaining after nextCoupon
	cum        bool // settlement entitled to the next coupon
	a          int  // days from settlement to nextCoupon
	b          int  // days in the current coupon period
}

// NewValuation validates in, derives the coupon schedule and returns an
// immutable Valuation. FaceValue, Frequency and DayCount fall back to
// package defaults when left zero.
func NewValuation(in ValuationInput) (*Valuation, error) {
	v := &Valuation{
		settle:    in.Settlement,
		maturity:  in.Maturity,
		coupon:    in.Coupon,
		yield:     in.Yield,
		faceValue: in.FaceValue,
		freq:      in.Frequency,
		dayCount:  in.DayCount,
		pValue:    in.PValue,
		ktFactor:  in.KtFactor,
	}
	if v.faceValue == 0 {
		v.faceValue = DefaultFaceValue
	}
	if v.freq == 0 {
		v.freq = DefaultFrequency
	}
	if v.dayCount == 0 {
		v.dayCount = DefaultDayCount
	}

	if !v.settle.Before(v.maturity) {
		return nil, fmt.Errorf("NewValuation: %w", ErrInvalidDateRange)
	}
	if v.faceValue <= 0 {
		return nil, fmt.Errorf("NewValuation: %w", ErrInvalidFaceValue)
	}
	if v.coupon < 0 {
		return nil, fmt.Errorf("NewValuation: %w", ErrInvalidCoupon)
	}
	switch v.freq {
	case 1, 2, 4, 12:
	default:
		return nil, fmt.Errorf("NewValuation: %w", ErrInvalidFrequency)
	}
	if v.dayCount <= 0 {
		return nil, fmt.Errorf("NewValuation: %w", ErrInvalidDayCount)
	}

	v.deriveSchedule()

	// With full periods remaining the annuity factor divides by the
	// periodic yield, so a zero yield is rejected up front instead of
	// surfacing as Inf/NaN from DirtyPrice.
	if v.yield == 0 && v.n > 0 {
		return nil, fmt.Errorf("NewValuation: %w", ErrInvalidYield)
	}

	return v, nil
}

// deriveSchedule computes the coupon schedule facts in dependency
// order: last/next coupon date, remaining full periods, ex-coupon flag
// and the day counts of the current period.
func (v *Valuation) deriveSchedule() {
	monthsPerPeriod := 12 / v.freq

	// Step backward from maturity one coupon period at a time until the
	// candidate date is at or before settlement. Anchoring on maturity
	// handles stub and short final periods uniformly.
	last := v.maturity
	for last.After(v.settle) {
		last = utils.AddMonth(last, -monthsPerPeriod)
	}
	v.lastCoupon = last
	v.nextCoupon = utils.AddMonth(last, monthsPerPeriod)

	// Actual day gap scaled to periods, rounded to tolerate uneven
	// month lengths. Zero means only the terminal payment remains.
	v.n = int(math.Round(utils.Days(v.nextCoupon, v.maturity) / v.dayCount * float64(v.freq)))

	recordDate := v.nextCoupon.AddDate(0, 0, -exCouponRecordDays)
	v.cum = !v.settle.After(recordDate)

	v.a = daysBetween(v.settle, v.nextCoupon)
	v.b = daysBetween(v.lastCoupon, v.nextCoupon)
}

// Schedule returns the derived coupon schedule facts.
func (v *Valuation) Schedule() Schedule {
	return Schedule{
		LastCoupon:  v.lastCoupon,
		NextCoupon:  v.nextCoupon,
		FullPeriods: v.n,
		CumCoupon:   v.cum,
		DaysToNext:  v.a,
		PeriodDays:  v.b,
	}
}

// AccruedInterest returns the interest earned since the last coupon.
//
// Inside the ex-coupon window the buyer is not entitled to the upcoming
// coupon and the accrued amount is negative by convention.
func (v *Valuation) AccruedInterest() float64 {
	periodCoupon := v.coupon / float64(v.freq) * v.faceValue * math.Max(1, v.ktFactor/100)
	if v.cum {
		return periodCoupon * float64(v.b-v.a) / float64(v.b)
	}
	return periodCoupon * -float64(v.a) / float64(v.b)
}

// DirtyPrice returns the settlement price including accrued interest.
func (v *Valuation) DirtyPrice() float64 {
	if v.n == 0 {
		// Terminal period: simple discounting of the single remaining
		// cash flow (face plus final coupon) back to settlement.
		t := utils.Days(v.settle, v.maturity) / v.dayCount
		return v.faceValue * (1 + v.coupon/float64(v.freq)) / (1 + v.yield*t)
	}

	periodYield := v.yield / float64(v.freq)
	discountFactor := 1 / math.Pow(1+periodYield, float64(v.n))
	annuityFactor := (1 - discountFactor) / periodYield
	couponPayment := v.coupon / float64(v.freq) * (v.entitlement() + annuityFactor)

	frac := float64(v.a) / float64(v.b)
	adjustmentFactor := math.Pow(1+periodYield, frac)
	inflationFactor := math.Max(1, v.ktFactor*math.Pow(1+v.pValue/100, -frac)/100)

	return (discountFactor + couponPayment) / adjustmentFactor * v.faceValue * inflationFactor
}

// CleanPrice returns the conventionally quoted price: dirty price minus
// accrued interest.
func (v *Valuation) CleanPrice() float64 {
	return v.DirtyPrice() - v.AccruedInterest()
}

// entitlement folds the ex-coupon flag into the discounted cash flow
// sum: one extra immediate coupon when cum-coupon, nothing when ex.
func (v *Valuation) entitlement() float64 {
	if v.cum {
		return 1
	}
	return 0
}

// daysBetween returns the number of calendar days from start to end (ACT).
func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
