package training

import (
	"math/rand"
	"testing"
)

// threeBlobs is a tiny well-separated dataset: three groups of four points.
func threeBlobs() [][]float64 {
	return [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1}, {10.1, 10.1},
		{-10, 10}, {-10.1, 10}, {-10, 10.1}, {-10.1, 10.1},
	}
}

func TestKmeansRecoversSeparatedClusters(t *testing.T) {
	rows := threeBlobs()
	rng := rand.New(rand.NewSource(42))
	_, labels := kmeansFit(rows, 3, 10, rng)

	// Points within a blob must share a label; blobs must differ.
	for blob := 0; blob < 3; blob++ {
		first := labels[blob*4]
		for i := 1; i < 4; i++ {
			if labels[blob*4+i] != first {
				t.Fatalf("blob %d split across clusters: %v", blob, labels)
			}
		}
	}
	if labels[0] == labels[4] || labels[4] == labels[8] || labels[0] == labels[8] {
		t.Fatalf("blobs merged: %v", labels)
	}
}

func TestKmeansDeterministicForSeed(t *testing.T) {
	rows := threeBlobs()
	c1, l1 := kmeansFit(rows, 3, 5, rand.New(rand.NewSource(7)))
	c2, l2 := kmeansFit(rows, 3, 5, rand.New(rand.NewSource(7)))

	for i := range l1 {
		if l1[i] != l2[i] {
			t.Fatalf("labels differ at %d for identical seeds", i)
		}
	}
	for i := range c1 {
		for j := range c1[i] {
			if c1[i][j] != c2[i][j] {
				t.Fatalf("centroid %d differs for identical seeds", i)
			}
		}
	}
}

func TestSilhouetteQuality(t *testing.T) {
	rows := threeBlobs()
	rng := rand.New(rand.NewSource(42))
	_, labels := kmeansFit(rows, 3, 10, rng)

	s := silhouette(rows, labels, 3)
	if s < 0.9 {
		t.Errorf("silhouette on well-separated blobs = %v, want > 0.9", s)
	}
	if s > 1 {
		t.Errorf("silhouette = %v, out of range", s)
	}

	// A deliberately bad labeling scores much worse.
	bad := make([]int, len(rows))
	for i := range bad {
		bad[i] = i % 3
	}
	if b := silhouette(rows, bad, 3); b >= s {
		t.Errorf("bad labeling silhouette %v >= good %v", b, s)
	}
}
