package feature

import (
	"math"
	"testing"
)

func TestEncodeTime_RoundTrip(t *testing.T) {
	for month := 1; month <= 12; month++ {
		sin, cos := EncodeTime(month)
		if sin < -1 || sin > 1 || cos < -1 || cos > 1 {
			t.Fatalf("month %d: encoding out of [-1,1]: sin=%f cos=%f", month, sin, cos)
		}
		if got := DecodeMonth(sin, cos); got != month {
			t.Errorf("month %d: decoded %d", month, got)
		}
	}
}

func TestEncodeTime_YearBoundaryCloseness(t *testing.T) {
	dist := func(a, b int) float64 {
		as, ac := EncodeTime(a)
		bs, bc := EncodeTime(b)
		return math.Hypot(as-bs, ac-bc)
	}

	decJan := dist(12, 1)
	junDec := dist(6, 12)
	if decJan >= junDec {
		t.Errorf("December-January (%f) should be closer than June-December (%f)", decJan, junDec)
	}
}

func TestForecastRow_FixedOrder(t *testing.T) {
	v := ForecastRow(2025, 3, 0.7, 4.5)

	if err := v.CheckSchema(ForecastSchema); err != nil {
		t.Fatalf("unexpected schema mismatch: %v", err)
	}

	vals := v.Values()
	if vals[0] != 2025 {
		t.Errorf("expected year first, got %f", vals[0])
	}
	sin, cos := EncodeTime(3)
	if vals[1] != sin || vals[2] != cos {
		t.Errorf("expected month encoding at positions 1,2, got %f,%f", vals[1], vals[2])
	}
	if vals[3] != 0.7 || vals[4] != 4.5 {
		t.Errorf("expected occupancy and stay last, got %f,%f", vals[3], vals[4])
	}
}

func TestForecastRow_MissingDefaultsToZero(t *testing.T) {
	v := ForecastRow(2025, 1, 0, 0)
	vals := v.Values()
	if vals[3] != 0 || vals[4] != 0 {
		t.Errorf("expected zero occupancy/stay defaults, got %f,%f", vals[3], vals[4])
	}
}

func TestBehaviorRow_SchemaAndOrder(t *testing.T) {
	b := Behavior{
		Budget: 3, TripDuration: 7, BeachPref: 0.9, CulturePref: 0.4,
		NaturePref: 0.5, AdventurePref: 0.2, GastronomyPref: 0.6,
		TripsPerYear: 2, GroupSize: 4,
	}
	v := BehaviorRow(b)

	if err := v.CheckSchema(BehaviorSchema); err != nil {
		t.Fatalf("unexpected schema mismatch: %v", err)
	}
	vals := v.Values()
	want := []float64{3, 7, 0.9, 0.4, 0.5, 0.2, 0.6, 2, 4}
	for i, w := range want {
		if vals[i] != w {
			t.Errorf("position %d: got %f, want %f", i, vals[i], w)
		}
	}
}

func TestVector_SchemaMismatch(t *testing.T) {
	v := ForecastRow(2025, 1, 0, 0)
	if err := v.CheckSchema(BehaviorSchema); err == nil {
		t.Fatal("expected schema mismatch between forecast and behavior schemas")
	}
}
