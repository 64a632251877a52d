package training

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const kmeansMaxIter = 300

// kmeansFit runs Lloyd's algorithm with k-means++ seeding, keeping the best
// of several restarts by inertia. Deterministic for a given rng state.
func kmeansFit(rows [][]float64, k, restarts int, rng *rand.Rand) (centroids [][]float64, labels []int) {
	bestInertia := math.Inf(1)
	for r := 0; r < restarts; r++ {
		c := seedCentroids(rows, k, rng)
		l := make([]int, len(rows))
		for iter := 0; iter < kmeansMaxIter; iter++ {
			moved := assignLabels(rows, c, l)
			updateCentroids(rows, c, l, rng)
			if !moved {
				break
			}
		}
		if in := inertia(rows, c, l); in < bestInertia {
			bestInertia = in
			centroids = c
			labels = l
		}
	}
	return centroids, labels
}

// seedCentroids is k-means++: the first center is uniform, each next is
// drawn proportional to squared distance from the nearest chosen center.
func seedCentroids(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(rows[rng.Intn(len(rows))]))

	dists := make([]float64, len(rows))
	for len(centroids) < k {
		total := 0.0
		for i, row := range rows {
			d := math.Inf(1)
			for _, c := range centroids {
				if v := floats.Distance(row, c, 2); v < d {
					d = v
				}
			}
			dists[i] = d * d
			total += dists[i]
		}
		if total == 0 {
			// All points coincide with a center; fall back to uniform.
			centroids = append(centroids, clone(rows[rng.Intn(len(rows))]))
			continue
		}
		r := rng.Float64() * total
		acc := 0.0
		pick := len(rows) - 1
		for i, d := range dists {
			acc += d
			if r < acc {
				pick = i
				break
			}
		}
		centroids = append(centroids, clone(rows[pick]))
	}
	return centroids
}

func assignLabels(rows, centroids [][]float64, labels []int) (moved bool) {
	for i, row := range rows {
		best, bestDist := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := floats.Distance(row, centroid, 2); d < bestDist {
				best, bestDist = c, d
			}
		}
		if labels[i] != best {
			labels[i] = best
			moved = true
		}
	}
	return moved
}

func updateCentroids(rows, centroids [][]float64, labels []int, rng *rand.Rand) {
	dim := len(centroids[0])
	counts := make([]int, len(centroids))
	for c := range centroids {
		for j := 0; j < dim; j++ {
			centroids[c][j] = 0
		}
	}
	for i, row := range rows {
		c := labels[i]
		counts[c]++
		floats.Add(centroids[c], row)
	}
	for c := range centroids {
		if counts[c] == 0 {
			// Empty cluster: reseed on a random point.
			copy(centroids[c], rows[rng.Intn(len(rows))])
			continue
		}
		floats.Scale(1/float64(counts[c]), centroids[c])
	}
}

func inertia(rows, centroids [][]float64, labels []int) float64 {
	sum := 0.0
	for i, row := range rows {
		d := floats.Distance(row, centroids[labels[i]], 2)
		sum += d * d
	}
	return sum
}

// silhouette is the mean silhouette coefficient over all points: for each
// point, (b-a)/max(a,b) where a is the mean distance to its own cluster and
// b the mean distance to the nearest other cluster.
func silhouette(rows [][]float64, labels []int, k int) float64 {
	n := len(rows)
	if n < 2 || k < 2 {
		return 0
	}

	sum := 0.0
	counted := 0
	for i := 0; i < n; i++ {
		intra := 0.0
		intraN := 0
		inter := make([]float64, k)
		interN := make([]int, k)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := floats.Distance(rows[i], rows[j], 2)
			if labels[j] == labels[i] {
				intra += d
				intraN++
			} else {
				inter[labels[j]] += d
				interN[labels[j]]++
			}
		}
		if intraN == 0 {
			continue // singleton cluster contributes nothing
		}

		a := intra / float64(intraN)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == labels[i] || interN[c] == 0 {
				continue
			}
			if mean := inter[c] / float64(interN[c]); mean < b {
				b = mean
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		sum += (b - a) / math.Max(a, b)
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

func clone(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}
