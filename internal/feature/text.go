package feature

import (
	"sort"
	"strings"
	"unicode"
)

// english stop-words dropped before counting terms.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an and are as at be been but by for from has have in is it its " +
			"of on or that the their there these this to was were will with " +
			"not no if then than so such into over under more most other some " +
			"can could should would do does did you your we our they them he " +
			"she his her i me my am what which who whom where when why how all " +
			"any both each few own same too very s t just don now",
	) {
		stopWords[w] = struct{}{}
	}
}

// Vectorizer counts uni+bigram term frequencies over a bounded vocabulary.
// The vocabulary is selected at fit time from the most frequent terms in the
// corpus; fields are exported for artifact serialization.
type Vectorizer struct {
	Vocabulary  []string `json:"vocabulary"`
	MaxFeatures int      `json:"max_features"`

	index map[string]int
}

// NewVectorizer creates an unfit vectorizer with a bounded vocabulary size.
func NewVectorizer(maxFeatures int) *Vectorizer {
	return &Vectorizer{MaxFeatures: maxFeatures}
}

// Fit selects the vocabulary: the maxFeatures most frequent terms across the
// corpus, ties broken alphabetically so training is deterministic. The final
// vocabulary is stored sorted so column order is stable.
func (v *Vectorizer) Fit(corpus []string) {
	counts := make(map[string]int)
	for _, doc := range corpus {
		for _, term := range terms(doc) {
			counts[term]++
		}
	}

	type termCount struct {
		term  string
		count int
	}
	all := make([]termCount, 0, len(counts))
	for t, c := range counts {
		all = append(all, termCount{t, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].term < all[j].term
	})

	limit := v.MaxFeatures
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	vocab := make([]string, limit)
	for i := 0; i < limit; i++ {
		vocab[i] = all[i].term
	}
	sort.Strings(vocab)

	v.Vocabulary = vocab
	v.index = nil
	v.buildIndex()
}

// Transform counts vocabulary terms in one document.
func (v *Vectorizer) Transform(doc string) []float64 {
	v.buildIndex()
	out := make([]float64, len(v.Vocabulary))
	for _, term := range terms(doc) {
		if i, ok := v.index[term]; ok {
			out[i]++
		}
	}
	return out
}

// TransformAll vectorizes the whole corpus into a dense block.
func (v *Vectorizer) TransformAll(corpus []string) [][]float64 {
	out := make([][]float64, len(corpus))
	for i, doc := range corpus {
		out[i] = v.Transform(doc)
	}
	return out
}

// buildIndex rebuilds the term lookup after deserialization.
func (v *Vectorizer) buildIndex() {
	if v.index != nil {
		return
	}
	v.index = make(map[string]int, len(v.Vocabulary))
	for i, t := range v.Vocabulary {
		v.index[t] = i
	}
}

// terms tokenizes a document into lowercase unigrams and bigrams with
// stop-words removed. Bigrams are formed over the post-stopword stream.
func terms(doc string) []string {
	tokens := tokenize(doc)
	out := make([]string, 0, len(tokens)*2)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func tokenize(doc string) []string {
	fields := strings.FieldsFunc(strings.ToLower(doc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop || len(f) < 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
