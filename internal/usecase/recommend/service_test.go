package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/wenda-travel/wendaml/internal/domain"
	"github.com/wenda-travel/wendaml/internal/model"
)

type mockModels struct {
	m   *model.RecommenderModel
	err error
}

func (s *mockModels) Get(context.Context, string) (*model.RecommenderModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.m, nil
}

func recommender(t *testing.T) *model.RecommenderModel {
	t.Helper()
	items := []domain.CatalogItem{
		{ID: "d1", Name: "Mussulo", Region: "Luanda", Category: "praia", Rating: 4.5},
		{ID: "d2", Name: "Fortaleza", Region: "Luanda", Category: "cultura", Rating: 4.2},
		{ID: "d3", Name: "Baía Azul", Region: "Benguela", Category: "praia", Rating: 4.7},
	}
	sim := [][]float64{
		{1.0, 0.1, 0.8},
		{0.1, 1.0, 0.2},
		{0.8, 0.2, 1.0},
	}
	m, err := model.NewRecommender(items, sim, nil, nil)
	if err != nil {
		t.Fatalf("NewRecommender: %v", err)
	}
	return m
}

func TestSimilarDelegates(t *testing.T) {
	svc := New(&mockModels{m: recommender(t)})

	got, err := svc.Similar(context.Background(), "d1", 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 2 || got[0].ItemID != "d3" {
		t.Errorf("got %+v", got)
	}

	if _, err := svc.Similar(context.Background(), "missing", 5); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("err = %v, want ErrItemNotFound", err)
	}
}

func TestByPreferenceDelegates(t *testing.T) {
	svc := New(&mockModels{m: recommender(t)})

	got, err := svc.ByPreference(context.Background(), model.PreferenceFilter{Regions: []string{"Luanda"}}, 5)
	if err != nil {
		t.Fatalf("ByPreference: %v", err)
	}
	if len(got) != 2 || got[0].ItemID != "d1" {
		t.Errorf("got %+v", got)
	}
}

func TestHybridDelegates(t *testing.T) {
	svc := New(&mockModels{m: recommender(t)})

	got, err := svc.Hybrid(context.Background(), model.PreferenceFilter{}, "d1", 2)
	if err != nil {
		t.Fatalf("Hybrid: %v", err)
	}
	if len(got) != 2 || got[0].ItemID != "d1" {
		t.Errorf("got %+v", got)
	}
}

func TestUnavailableMapping(t *testing.T) {
	for _, cause := range []error{domain.ErrArtifactNotFound, domain.ErrArtifactCorrupt} {
		svc := New(&mockModels{err: cause})
		if _, err := svc.Similar(context.Background(), "d1", 5); !errors.Is(err, domain.ErrModelUnavailable) {
			t.Errorf("cause %v: err = %v, want ErrModelUnavailable", cause, err)
		}
	}

	// Alignment failures are fatal and keep their identity.
	svc := New(&mockModels{err: domain.ErrSchemaMismatch})
	if _, err := svc.Similar(context.Background(), "d1", 5); !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Errorf("err = %v, want ErrSchemaMismatch", err)
	}
}
