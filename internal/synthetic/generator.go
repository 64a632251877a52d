// Package synthetic generates the seeded behavioral population the
// clustering model trains on. Real user traffic is not yet large enough to
// segment, so training draws from documented traveler archetypes instead;
// the generator is deterministic for a given seed so retrains are
// reproducible.
package synthetic

import (
	"math/rand"

	"github.com/wenda-travel/wendaml/internal/feature"
)

// Archetype labels attached to generated profiles. Useful when inspecting
// how k-means clusters recover the generating populations.
const (
	ArchetypeRelaxed    = "relaxante_tradicional"
	ArchetypeAdventurer = "aventureiro_explorador"
	ArchetypeCultural   = "cultural_urbano"
	ArchetypeBusiness   = "negocios_lazer"
	ArchetypeEco        = "ecoturista"
)

// Profile is one generated traveler.
type Profile struct {
	Archetype string
	Behavior  feature.Behavior
}

// Population shares. The last archetype absorbs rounding remainder so the
// total always equals the requested sample count.
const (
	shareRelaxed    = 0.35
	shareAdventurer = 0.25
	shareCultural   = 0.20
	shareBusiness   = 0.15
)

// Generate produces n profiles from the documented archetype mix:
// relaxed 35%, adventurer 25%, cultural 20%, business 15%, eco 5%.
func Generate(n int, seed int64) []Profile {
	rng := rand.New(rand.NewSource(seed))
	profiles := make([]Profile, 0, n)

	n1 := int(float64(n) * shareRelaxed)
	n2 := int(float64(n) * shareAdventurer)
	n3 := int(float64(n) * shareCultural)
	n4 := int(float64(n) * shareBusiness)
	n5 := n - n1 - n2 - n3 - n4

	for i := 0; i < n1; i++ {
		profiles = append(profiles, Profile{Archetype: ArchetypeRelaxed, Behavior: relaxed(rng)})
	}
	for i := 0; i < n2; i++ {
		profiles = append(profiles, Profile{Archetype: ArchetypeAdventurer, Behavior: adventurer(rng)})
	}
	for i := 0; i < n3; i++ {
		profiles = append(profiles, Profile{Archetype: ArchetypeCultural, Behavior: cultural(rng)})
	}
	for i := 0; i < n4; i++ {
		profiles = append(profiles, Profile{Archetype: ArchetypeBusiness, Behavior: business(rng)})
	}
	for i := 0; i < n5; i++ {
		profiles = append(profiles, Profile{Archetype: ArchetypeEco, Behavior: eco(rng)})
	}
	return profiles
}

// Rows encodes the population in the behavioral feature order.
func Rows(profiles []Profile) [][]float64 {
	rows := make([][]float64, len(profiles))
	for i, p := range profiles {
		rows[i] = feature.BehaviorRow(p.Behavior).Values()
	}
	return rows
}

// Medium-to-high budget beach holidays, couples and small families.
func relaxed(rng *rand.Rand) feature.Behavior {
	return clip(feature.Behavior{
		Budget:         choice(rng, []float64{2, 3}, []float64{0.7, 0.3}),
		TripDuration:   normal(rng, 6, 1.5),
		BeachPref:      uniform(rng, 0.8, 1.0),
		CulturePref:    uniform(rng, 0.3, 0.6),
		NaturePref:     uniform(rng, 0.4, 0.7),
		AdventurePref:  uniform(rng, 0.1, 0.4),
		GastronomyPref: uniform(rng, 0.5, 0.8),
		TripsPerYear:   choice(rng, []float64{1, 2}, []float64{0.6, 0.4}),
		GroupSize:      choice(rng, []float64{2, 3, 4}, []float64{0.5, 0.3, 0.2}),
	})
}

// Long nature-and-adventure trips, solo up to small groups.
func adventurer(rng *rand.Rand) feature.Behavior {
	return clip(feature.Behavior{
		Budget:         choice(rng, []float64{2, 3}, []float64{0.5, 0.5}),
		TripDuration:   normal(rng, 10, 2),
		BeachPref:      uniform(rng, 0.3, 0.6),
		CulturePref:    uniform(rng, 0.4, 0.7),
		NaturePref:     uniform(rng, 0.8, 1.0),
		AdventurePref:  uniform(rng, 0.8, 1.0),
		GastronomyPref: uniform(rng, 0.6, 0.9),
		TripsPerYear:   choice(rng, []float64{2, 3, 4}, []float64{0.5, 0.3, 0.2}),
		GroupSize:      choice(rng, []float64{1, 2, 4}, []float64{0.3, 0.4, 0.3}),
	})
}

// Short city breaks centered on culture and food.
func cultural(rng *rand.Rand) feature.Behavior {
	return clip(feature.Behavior{
		Budget:         choice(rng, []float64{2, 3}, []float64{0.6, 0.4}),
		TripDuration:   normal(rng, 5, 1),
		BeachPref:      uniform(rng, 0.2, 0.5),
		CulturePref:    uniform(rng, 0.8, 1.0),
		NaturePref:     uniform(rng, 0.3, 0.6),
		AdventurePref:  uniform(rng, 0.2, 0.5),
		GastronomyPref: uniform(rng, 0.7, 1.0),
		TripsPerYear:   choice(rng, []float64{2, 3, 4}, []float64{0.4, 0.4, 0.2}),
		GroupSize:      choice(rng, []float64{1, 2}, []float64{0.4, 0.6}),
	})
}

// Frequent short high-budget trips, mostly solo.
func business(rng *rand.Rand) feature.Behavior {
	return clip(feature.Behavior{
		Budget:         3,
		TripDuration:   normal(rng, 4, 1),
		BeachPref:      uniform(rng, 0.5, 0.8),
		CulturePref:    uniform(rng, 0.6, 0.9),
		NaturePref:     uniform(rng, 0.3, 0.6),
		AdventurePref:  uniform(rng, 0.2, 0.5),
		GastronomyPref: uniform(rng, 0.7, 1.0),
		TripsPerYear:   choice(rng, []float64{4, 6, 8}, []float64{0.5, 0.3, 0.2}),
		GroupSize:      choice(rng, []float64{1, 2}, []float64{0.7, 0.3}),
	})
}

// Long nature-first trips in larger groups.
func eco(rng *rand.Rand) feature.Behavior {
	return clip(feature.Behavior{
		Budget:         choice(rng, []float64{2, 3}, []float64{0.4, 0.6}),
		TripDuration:   normal(rng, 10, 2),
		BeachPref:      uniform(rng, 0.2, 0.5),
		CulturePref:    uniform(rng, 0.5, 0.8),
		NaturePref:     uniform(rng, 0.9, 1.0),
		AdventurePref:  uniform(rng, 0.7, 1.0),
		GastronomyPref: uniform(rng, 0.6, 0.9),
		TripsPerYear:   choice(rng, []float64{1, 2}, []float64{0.6, 0.4}),
		GroupSize:      choice(rng, []float64{2, 4, 6}, []float64{0.3, 0.5, 0.2}),
	})
}

// clip keeps duration and group size at a sane floor; the normal draws can
// dip below one.
func clip(b feature.Behavior) feature.Behavior {
	if b.TripDuration < 1 {
		b.TripDuration = 1
	}
	if b.GroupSize < 1 {
		b.GroupSize = 1
	}
	return b
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func normal(rng *rand.Rand, mean, std float64) float64 {
	return mean + rng.NormFloat64()*std
}

// choice draws one value according to the given probabilities, which must
// sum to 1.
func choice(rng *rand.Rand, values, probs []float64) float64 {
	r := rng.Float64()
	acc := 0.0
	for i, p := range probs {
		acc += p
		if r < acc {
			return values[i]
		}
	}
	return values[len(values)-1]
}
