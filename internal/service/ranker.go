package service

import (
	"container/heap"
	"sort"
	"strings"

	"outage-api/internal/models"

	"github.com/xrash/smetrics"
)

// MatchThreshold is the minimum Jaro-Winkler similarity of a text match.
const MatchThreshold = 0.7

const jaroWinklerPrefix = 4

// NormalizeTerm prepares a search term for scoring. Addresses are stored in
// the same form.
func NormalizeTerm(term string) string {
	return models.NormalizeText(term)
}

// Similarity scores a normalized term against candidate text. Scores below
// MatchThreshold are reported as 0.
func Similarity(term, text string) float64 {
	s := smetrics.JaroWinkler(term, models.NormalizeText(text), MatchThreshold, jaroWinklerPrefix)
	if s < MatchThreshold {
		return 0
	}
	return s
}

// candidateText is the street, followed by city and zip for FieldsFull.
func candidateText(a models.Address, fields models.SearchFields) string {
	parts := []string{a.Street()}
	if fields == models.FieldsFull {
		parts = append(parts, a.City, a.Zipcode)
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

type ranked struct {
	address  models.Address
	score    float64
	distance float64
}

// Ranker keeps the best k text matches seen so far.
// Order: score descending, then distance ascending when byDistance is set,
// then id ascending.
type Ranker struct {
	k          int
	byDistance bool
	h          rankHeap
}

func NewRanker(k int, byDistance bool) *Ranker {
	r := &Ranker{k: k, byDistance: byDistance}
	r.h.better = r.better
	return r
}

func (r *Ranker) better(a, b ranked) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if r.byDistance && a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.address.ID < b.address.ID
}

// Offer considers a candidate; distance is ignored unless the ranker sorts by it.
func (r *Ranker) Offer(a models.Address, score, distance float64) {
	if r.k <= 0 || score <= 0 {
		return
	}
	c := ranked{address: a, score: score, distance: distance}
	if r.h.Len() < r.k {
		heap.Push(&r.h, c)
		return
	}
	if r.better(c, r.h.items[0]) {
		r.h.items[0] = c
		heap.Fix(&r.h, 0)
	}
}

// Results returns the kept candidates, best first.
func (r *Ranker) Results() []models.SearchResult {
	items := make([]ranked, len(r.h.items))
	copy(items, r.h.items)
	sort.Slice(items, func(i, j int) bool { return r.better(items[i], items[j]) })

	results := make([]models.SearchResult, len(items))
	for i, c := range items {
		score := c.score
		results[i] = models.SearchResult{Address: c.address, Score: &score}
		if r.byDistance {
			d := c.distance
			results[i].DistanceMeters = &d
		}
	}
	return results
}

// rankHeap is a min-heap with the worst kept candidate at the root.
type rankHeap struct {
	items  []ranked
	better func(a, b ranked) bool
}

func (h rankHeap) Len() int           { return len(h.items) }
func (h rankHeap) Less(i, j int) bool { return h.better(h.items[j], h.items[i]) }
func (h rankHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *rankHeap) Push(x any) { h.items = append(h.items, x.(ranked)) }

func (h *rankHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}
