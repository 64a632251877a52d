package feature

import (
	"reflect"
	"testing"
)

func TestVectorizer_Deterministic(t *testing.T) {
	corpus := []string{
		"beautiful beach resort with white sand",
		"historic culture museum in the old city",
		"beach beach beach",
	}

	a := NewVectorizer(10)
	a.Fit(corpus)
	b := NewVectorizer(10)
	b.Fit(corpus)

	if !reflect.DeepEqual(a.Vocabulary, b.Vocabulary) {
		t.Errorf("vocabulary not deterministic:\n%v\n%v", a.Vocabulary, b.Vocabulary)
	}
	if !reflect.DeepEqual(a.Transform(corpus[0]), b.Transform(corpus[0])) {
		t.Error("transform not deterministic")
	}
}

func TestVectorizer_StopWordsRemoved(t *testing.T) {
	v := NewVectorizer(0)
	v.Fit([]string{"the beach and the sea"})

	for _, term := range v.Vocabulary {
		if term == "the" || term == "and" {
			t.Errorf("stop-word %q in vocabulary", term)
		}
	}
}

func TestVectorizer_Bigrams(t *testing.T) {
	v := NewVectorizer(0)
	v.Fit([]string{"white sand beach"})

	found := false
	for _, term := range v.Vocabulary {
		if term == "white sand" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected bigram \"white sand\" in vocabulary: %v", v.Vocabulary)
	}
}

func TestVectorizer_VocabularyBound(t *testing.T) {
	corpus := []string{
		"alpha bravo charlie delta echo foxtrot golf hotel india juliett",
	}
	v := NewVectorizer(5)
	v.Fit(corpus)

	if len(v.Vocabulary) != 5 {
		t.Errorf("expected vocabulary bounded to 5, got %d", len(v.Vocabulary))
	}
}

func TestVectorizer_TransformCounts(t *testing.T) {
	v := NewVectorizer(0)
	v.Fit([]string{"beach culture", "beach nature"})

	row := v.Transform("beach beach culture")
	idx := -1
	for i, term := range v.Vocabulary {
		if term == "beach" {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatalf("beach missing from vocabulary %v", v.Vocabulary)
	}
	if row[idx] != 2 {
		t.Errorf("expected count 2 for beach, got %f", row[idx])
	}
}

func TestVectorizer_IndexRebuiltAfterDeserialize(t *testing.T) {
	v := NewVectorizer(0)
	v.Fit([]string{"beach resort"})

	// Simulate a loaded artifact: only exported fields survive.
	loaded := &Vectorizer{Vocabulary: v.Vocabulary, MaxFeatures: v.MaxFeatures}
	if !reflect.DeepEqual(loaded.Transform("beach"), v.Transform("beach")) {
		t.Error("transform differs after deserialization")
	}
}
