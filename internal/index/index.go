// Package index implements an in-memory TF-IDF retrieval index over the
// enriched scheme corpus, with profile-aware filtering and boosting.
package index

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/profile"
)

// Defaults for the vector space.
const (
	DefaultMaxVocabSize = 5000
	DefaultMinDocFreq   = 2
	DefaultTopK         = 10

	stateMatchBoost = 0.2
	cropMatchBoost  = 0.15
)

// Options configures the index.
type Options struct {
	MaxVocabSize int
	MinDocFreq   int

	// Disabled forces keyword-overlap scoring instead of the vector space.
	Disabled bool
}

// Result pairs a scheme with its final (boosted) relevance score.
type Result struct {
	Record corpus.EnrichedRecord
	Score  float64
}

// Index is an immutable TF-IDF vector space over the scheme corpus.
// Build runs at most once; Search is safe for concurrent use afterwards.
type Index struct {
	records []corpus.EnrichedRecord
	opts    Options

	buildOnce sync.Once
	vocab     map[string]int
	idf       []float64
	vectors   []map[int]float64
}

// New creates an index over the enriched records. The records slice is not
// copied and must not be mutated afterwards.
func New(records []corpus.EnrichedRecord, opts Options) *Index {
	if opts.MaxVocabSize <= 0 {
		opts.MaxVocabSize = DefaultMaxVocabSize
	}
	if opts.MinDocFreq <= 0 {
		opts.MinDocFreq = DefaultMinDocFreq
	}
	return &Index{records: records, opts: opts}
}

// Build constructs the vocabulary and document vectors. Safe to call more
// than once; only the first call does work.
func (ix *Index) Build() {
	ix.buildOnce.Do(ix.build)
}

func (ix *Index) build() {
	if ix.opts.Disabled || len(ix.records) == 0 {
		return
	}

	docs := make([][]string, len(ix.records))
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for i, rec := range ix.records {
		terms := Terms(rec.SearchText)
		docs[i] = terms

		seen := make(map[string]bool)
		for _, t := range terms {
			termFreq[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}

	// Vocabulary: document-frequency floor, then cap by corpus frequency
	// descending with alphabetical tie-break.
	candidates := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df >= ix.opts.MinDocFreq {
			candidates = append(candidates, term)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if termFreq[candidates[i]] != termFreq[candidates[j]] {
			return termFreq[candidates[i]] > termFreq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > ix.opts.MaxVocabSize {
		candidates = candidates[:ix.opts.MaxVocabSize]
	}

	ix.vocab = make(map[string]int, len(candidates))
	for i, term := range candidates {
		ix.vocab[term] = i
	}

	// Smoothed IDF.
	n := float64(len(ix.records))
	ix.idf = make([]float64, len(candidates))
	for i, term := range candidates {
		ix.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	ix.vectors = make([]map[int]float64, len(docs))
	for i, terms := range docs {
		ix.vectors[i] = ix.vectorize(terms)
	}
}

// vectorize maps terms to an L2-normalized sparse TF-IDF vector.
func (ix *Index) vectorize(terms []string) map[int]float64 {
	vec := make(map[int]float64)
	for _, t := range terms {
		if id, ok := ix.vocab[t]; ok {
			vec[id]++
		}
	}

	var norm float64
	for id := range vec {
		vec[id] *= ix.idf[id]
		norm += vec[id] * vec[id]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for id := range vec {
			vec[id] /= norm
		}
	}
	return vec
}

// Search retrieves the topK schemes most relevant to the query, filtered
// and boosted by the applicant profile. Only positive-similarity matches
// are returned.
func (ix *Index) Search(query string, p profile.ApplicantProfile, topK int) []Result {
	ix.Build()

	if topK <= 0 {
		topK = DefaultTopK
	}

	// Over-fetch before metadata filtering.
	raw := ix.rawSearch(query, topK*2)

	var filtered []Result
	for _, r := range raw {
		if !scopeAllows(p, r.Record) {
			continue
		}
		if p.Topic != "" && !TopicMatches(p.Topic, r.Record.SubCategories) {
			continue
		}
		r.Score = boost(r.Score, p, r.Record)
		filtered = append(filtered, r)
	}

	sortResults(filtered)
	if len(filtered) > topK {
		filtered = filtered[:topK]
	}
	return filtered
}

// rawSearch scores all records by similarity and returns the top limit.
func (ix *Index) rawSearch(query string, limit int) []Result {
	if ix.vectors == nil || len(ix.vocab) == 0 {
		return ix.keywordSearch(query, limit)
	}

	qvec := ix.vectorize(Terms(query))
	if len(qvec) == 0 {
		return ix.keywordSearch(query, limit)
	}

	var results []Result
	for i, dvec := range ix.vectors {
		score := dot(qvec, dvec)
		if score > 0 {
			results = append(results, Result{Record: ix.records[i], Score: score})
		}
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// keywordSearch is the degraded scoring mode: the fraction of query words
// present in the search text.
func (ix *Index) keywordSearch(query string, limit int) []Result {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	unique := make(map[string]bool)
	for _, w := range words {
		unique[w] = true
	}

	var results []Result
	for _, rec := range ix.records {
		text := strings.ToLower(rec.SearchText)
		matched := 0
		for w := range unique {
			if strings.Contains(text, w) {
				matched++
			}
		}
		if matched > 0 {
			results = append(results, Result{
				Record: rec,
				Score:  float64(matched) / float64(len(unique)),
			})
		}
	}

	sortResults(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// ComposeQuery synthesizes the retrieval query text from a profile.
func ComposeQuery(p profile.ApplicantProfile) string {
	var parts []string

	if p.State != "" {
		parts = append(parts, fmt.Sprintf("schemes for %s", p.State))
	}
	if len(p.Crops) > 0 {
		parts = append(parts, fmt.Sprintf("for %s", strings.Join(p.Crops, ", ")))
	}
	if p.Topic != "" {
		parts = append(parts, p.Topic)
	}
	if p.LandAcres != nil {
		parts = append(parts, fmt.Sprintf("land size %g acres", *p.LandAcres))
	}
	if p.FarmerType != "" {
		parts = append(parts, fmt.Sprintf("%s farmer", p.FarmerType))
	}

	if len(parts) == 0 {
		return "government agricultural schemes"
	}
	return strings.Join(parts, " ")
}

// TopicMatches reports whether the requested topic matches any declared
// sub-category: case-insensitive equality, containment either way, or at
// least two shared significant words.
func TopicMatches(topic string, subCategories []string) bool {
	topicLower := strings.ToLower(topic)
	topicWords := significantWords(topicLower)

	for _, sc := range subCategories {
		scLower := strings.ToLower(sc)
		if topicLower == scLower {
			return true
		}
		if strings.Contains(scLower, topicLower) || strings.Contains(topicLower, scLower) {
			return true
		}

		shared := 0
		scWords := significantWords(scLower)
		for _, w := range topicWords {
			for _, sw := range scWords {
				if w == sw {
					shared++
					break
				}
			}
		}
		if shared >= 2 {
			return true
		}
	}
	return false
}

// scopeAllows applies the scope preference to a candidate record.
func scopeAllows(p profile.ApplicantProfile, rec corpus.EnrichedRecord) bool {
	switch p.Scope {
	case profile.ScopeStateOnly:
		return !rec.IsCentral() && strings.EqualFold(rec.State, p.State)
	case profile.ScopeCentralOnly:
		return rec.IsCentral()
	default:
		// all: with a known state keep that state plus Central schemes.
		if p.State != "" && !rec.IsCentral() && !strings.EqualFold(rec.State, p.State) {
			return false
		}
		return true
	}
}

func boost(score float64, p profile.ApplicantProfile, rec corpus.EnrichedRecord) float64 {
	if p.State != "" && strings.EqualFold(rec.State, p.State) {
		score += stateMatchBoost
	}

	if len(p.Crops) > 0 && len(rec.CropTags) > 0 {
		tags := make(map[string]bool, len(rec.CropTags))
		for _, t := range rec.CropTags {
			tags[strings.ToLower(t)] = true
		}
		for _, c := range p.Crops {
			if tags[strings.ToLower(c)] {
				score += cropMatchBoost
			}
		}
	}
	return score
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Record.SchemeName < results[j].Record.SchemeName
	})
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, v := range a {
		sum += v * b[id]
	}
	return sum
}

// Terms tokenizes text into lower-case unigrams and bigrams with stop
// words removed.
func Terms(text string) []string {
	tokens := tokenize(text)

	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}
