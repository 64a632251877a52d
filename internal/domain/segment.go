package domain

// SegmentProfile describes one behavioral cluster of the training population.
type SegmentProfile struct {
	SegmentID   int                `json:"segmentId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Size        int                `json:"size"`
	Percentage  float64            `json:"percentage"`
	Means       map[string]float64 `json:"means"`
}

// SegmentAssignment places a feature vector into a segment with a
// distance-derived confidence in [0, 1].
type SegmentAssignment struct {
	SegmentID  int     `json:"segmentId"`
	Confidence float64 `json:"confidence"`
}
