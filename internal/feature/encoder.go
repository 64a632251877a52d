// Package feature holds the deterministic transforms from raw records to
// fixed-order numeric vectors. The encoders are shared verbatim by training
// and serving; any divergence between the two is a correctness bug.
package feature

import (
	"math"

	"github.com/wenda-travel/wendaml/internal/domain"
)

// ForecastSchema is the fixed feature order for the per-region demand regressor.
var ForecastSchema = domain.NewSchema("forecast_v1", []string{
	"year", "month_sin", "month_cos", "occupancy_rate", "avg_stay_days",
})

// BehaviorSchema is the fixed feature order for the behavioral clustering model.
var BehaviorSchema = domain.NewSchema("behavior_v1", []string{
	"budget", "trip_duration", "beach_pref", "culture_pref", "nature_pref",
	"adventure_pref", "gastronomy_pref", "trips_per_year", "group_size",
})

// EncodeTime maps a month (1-12) onto the unit circle so that adjacent
// months are close in feature space across the year boundary: December and
// January are near, June and December far.
func EncodeTime(month int) (sin, cos float64) {
	angle := 2 * math.Pi * float64(month) / 12
	return math.Sin(angle), math.Cos(angle)
}

// DecodeMonth recovers the month from its circular encoding via atan2.
func DecodeMonth(sin, cos float64) int {
	angle := math.Atan2(sin, cos)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	month := int(math.Round(angle * 12 / (2 * math.Pi)))
	if month == 0 {
		month = 12
	}
	return month
}

// ForecastRow assembles the forecast feature vector in schema order.
// Missing occupancy/stayDays are passed as 0 by callers.
func ForecastRow(year, month int, occupancy, stayDays float64) domain.Vector {
	sin, cos := EncodeTime(month)
	v, err := domain.NewVector(ForecastSchema, []float64{
		float64(year), sin, cos, occupancy, stayDays,
	})
	if err != nil {
		// Length is fixed at compile time; this cannot happen.
		panic(err)
	}
	return v
}

// Behavior is one raw behavioral profile record.
type Behavior struct {
	Budget        float64 `json:"budget"` // 1=low, 2=medium, 3=high
	TripDuration  float64 `json:"trip_duration"`
	BeachPref     float64 `json:"beach_pref"`
	CulturePref   float64 `json:"culture_pref"`
	NaturePref    float64 `json:"nature_pref"`
	AdventurePref float64 `json:"adventure_pref"`
	GastronomyPref float64 `json:"gastronomy_pref"`
	TripsPerYear  float64 `json:"trips_per_year"`
	GroupSize     float64 `json:"group_size"`
}

// BehaviorRow assembles the behavioral feature vector in schema order.
func BehaviorRow(b Behavior) domain.Vector {
	v, err := domain.NewVector(BehaviorSchema, []float64{
		b.Budget, b.TripDuration, b.BeachPref, b.CulturePref, b.NaturePref,
		b.AdventurePref, b.GastronomyPref, b.TripsPerYear, b.GroupSize,
	})
	if err != nil {
		panic(err)
	}
	return v
}
