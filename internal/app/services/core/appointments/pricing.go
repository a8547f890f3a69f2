package appointments

import (
	"fmt"
	"math"
	"nursecare-service/internal/pkg/constvars"
	"nursecare-service/internal/pkg/exceptions"
)

const minorUnitsPerMajor = 100

// fast-service prices by service option, in major units.
var fastServicePrices = map[string]int64{
	"opt1": 100,
	"opt2": 200,
	"opt3": 300,
	"opt4": 400,
	"opt5": 500,
	"opt6": 600,
}

// full-time-care daily rates by frequency, in major units.
var fullTimeCareRates = map[string]int64{
	"opt1": 500,
	"opt2": 200,
	"opt3": 250,
}

const (
	fastServiceTaxPercent  = 10
	fullTimeCareTaxPercent = 5
)

// Cost is kept in minor units.
type Cost struct {
	TotalMinor int64
	TaxMinor   int64
}

func (c Cost) Total() float64 {
	return float64(c.TotalMinor) / minorUnitsPerMajor
}

func (c Cost) Tax() float64 {
	return float64(c.TaxMinor) / minorUnitsPerMajor
}

// ComputeCost prices an appointment. serviceOption applies to fast-service,
// frequency and days to full-time-care.
func ComputeCost(appointmentType, serviceOption, frequency string, days int) (Cost, error) {
	switch appointmentType {
	case constvars.AppointmentTypeFastService:
		price, ok := fastServicePrices[serviceOption]
		if !ok {
			return Cost{}, exceptions.ErrUnsupportedPricing(nil, appointmentType, serviceOption)
		}
		return withTax(price*minorUnitsPerMajor, fastServiceTaxPercent), nil

	case constvars.AppointmentTypeFullTimeCare:
		rate, ok := fullTimeCareRates[frequency]
		if !ok {
			return Cost{}, exceptions.ErrUnsupportedPricing(nil, appointmentType, frequency)
		}
		if days <= 0 {
			return Cost{}, exceptions.ErrUnsupportedPricing(fmt.Errorf("days must be positive, got %d", days), appointmentType, frequency)
		}
		return withTax(int64(days)*rate*minorUnitsPerMajor, fullTimeCareTaxPercent), nil
	}
	return Cost{}, exceptions.ErrUnsupportedPricing(nil, appointmentType, serviceOption)
}

func withTax(baseMinor int64, taxPercent int64) Cost {
	tax := baseMinor * taxPercent / 100
	return Cost{TotalMinor: baseMinor + tax, TaxMinor: tax}
}

// toMinorUnits converts a stored major-unit amount back for the ledger.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * minorUnitsPerMajor))
}
