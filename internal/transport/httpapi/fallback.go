package httpapi

import "github.com/wenda-travel/wendaml/internal/domain"

// defaultSegments is the static segment table from the market study that
// predates the clustering model. Served only while no trained artifact
// exists; sizes are unknown so only percentages are populated.
func defaultSegments() []domain.SegmentProfile {
	return []domain.SegmentProfile{
		{
			SegmentID:   0,
			Name:        "Relaxante Tradicional",
			Description: "Beach and rest seekers with medium budget, traveling with family on longer stays.",
			Percentage:  35,
		},
		{
			SegmentID:   1,
			Name:        "Aventureiro Explorador",
			Description: "Adventure and nature enthusiasts with flexible budget, favoring parks and waterfalls.",
			Percentage:  25,
		},
		{
			SegmentID:   2,
			Name:        "Cultural Urbano",
			Description: "History and museum visitors on short urban trips with medium budget.",
			Percentage:  20,
		},
		{
			SegmentID:   3,
			Name:        "Negócios & Lazer",
			Description: "Frequent business travelers with high budget extending trips for leisure.",
			Percentage:  15,
		},
		{
			SegmentID:   4,
			Name:        "Ecoturista Consciente",
			Description: "Sustainability-minded travelers seeking community tourism and conservation areas.",
			Percentage:  5,
		},
	}
}
