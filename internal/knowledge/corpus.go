// Package knowledge implements the lexical retrieval layer grounding the
// concierge assistant. Documents are turned into token-frequency vectors at
// build time; queries are scored against them with boosted cosine
// similarity. The corpus is immutable after construction.
package knowledge

import (
	"container/heap"
	"fmt"
	"math"
	"strings"
	"sync"
	"unicode"
)

const (
	// scoreThreshold is the minimum boosted score an entry must clear to be
	// included in assistant context.
	scoreThreshold = 0.04
	// contextTopK is the number of entries concatenated into the context.
	contextTopK = 4
)

// Document is a raw knowledge source prior to indexing.
type Document struct {
	ID      string
	Section string
	Text    string
}

// Entry is an indexed knowledge document.
type Entry struct {
	ID      string
	Section string
	Text    string

	tokenCounts map[string]int
	norm        float64
	boost       float64
}

// Match is an entry with its boosted similarity score for a query.
type Match struct {
	Entry *Entry
	Score float64
}

// Corpus is the indexed knowledge base.
type Corpus struct {
	entries []*Entry
}

// sectionBoosts are static per-section score multipliers. FAQ answers are
// promoted; general brand copy is slightly dampened so it does not crowd
// out operational answers.
var sectionBoosts = map[string]float64{
	"faq":   1.35,
	"brand": 0.95,
}

func boostFor(section string) float64 {
	if b, ok := sectionBoosts[strings.ToLower(section)]; ok {
		return b
	}
	return 1.0
}

// Tokenize lowercases the text, strips everything that is not a Unicode
// letter, digit, or whitespace, and splits on whitespace.
func Tokenize(text string) []string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			return unicode.ToLower(r)
		default:
			return ' '
		}
	}, text)
	return strings.Fields(mapped)
}

func tokenCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// vectorNorm returns the Euclidean norm of a token-frequency vector.
// A zero or non-finite norm is treated as 1 to keep division safe.
func vectorNorm(counts map[string]int) float64 {
	var sum float64
	for _, c := range counts {
		sum += float64(c) * float64(c)
	}
	n := math.Sqrt(sum)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 1
	}
	return n
}

// Build indexes the documents into a Corpus.
func Build(docs []Document) *Corpus {
	entries := make([]*Entry, 0, len(docs))
	for _, d := range docs {
		counts := tokenCounts(Tokenize(d.Text))
		entries = append(entries, &Entry{
			ID:          d.ID,
			Section:     d.Section,
			Text:        d.Text,
			tokenCounts: counts,
			norm:        vectorNorm(counts),
			boost:       boostFor(d.Section),
		})
	}
	return &Corpus{entries: entries}
}

// Len returns the number of indexed entries.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// score computes the boosted cosine similarity between the query vector and
// an entry. Only tokens shared by both vectors contribute to the dot
// product.
func score(queryCounts map[string]int, queryNorm float64, e *Entry) float64 {
	var dot float64
	for token, qc := range queryCounts {
		if ec, ok := e.tokenCounts[token]; ok {
			dot += float64(qc) * float64(ec)
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (queryNorm * e.norm) * e.boost
}

// matchHeap is a min-heap of matches ordered by score, used to track the
// top-K candidates during a scan.
type matchHeap []Match

func (h matchHeap) Len() int           { return len(h) }
func (h matchHeap) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h matchHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *matchHeap) Push(x any)        { *h = append(*h, x.(Match)) }
func (h *matchHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Search scores the query against every entry and returns the top-K matches
// above the inclusion threshold, best first.
func (c *Corpus) Search(query string, topK int) []Match {
	if topK <= 0 {
		topK = contextTopK
	}
	queryCounts := tokenCounts(Tokenize(query))
	if len(queryCounts) == 0 {
		return nil
	}
	queryNorm := vectorNorm(queryCounts)

	h := &matchHeap{}
	heap.Init(h)
	for _, e := range c.entries {
		s := score(queryCounts, queryNorm, e)
		if s <= scoreThreshold {
			continue
		}
		if h.Len() < topK {
			heap.Push(h, Match{Entry: e, Score: s})
		} else if s > (*h)[0].Score {
			(*h)[0] = Match{Entry: e, Score: s}
			heap.Fix(h, 0)
		}
	}

	matches := make([]Match, h.Len())
	for i := len(matches) - 1; i >= 0; i-- {
		matches[i] = heap.Pop(h).(Match)
	}
	return matches
}

// Context builds the grounding context for the assistant: the top matching
// entries concatenated, each prefixed with its section label. An empty
// string means nothing cleared the threshold; the assistant is still
// invoked and must ask clarifying questions instead of fabricating.
func (c *Corpus) Context(query string) string {
	matches := c.Search(query, contextTopK)
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s", m.Entry.Section, m.Entry.Text)
	}
	return b.String()
}

// The process-wide corpus is built once during bootstrap and never rebuilt
// or mutated afterwards; content changes ship as a redeploy.
var (
	defaultCorpus *Corpus
	initOnce      sync.Once
)

// Init builds the process-wide corpus from the built-in documents plus any
// extras. Only the first call has an effect.
func Init(extra ...Document) *Corpus {
	initOnce.Do(func() {
		defaultCorpus = Build(append(builtinDocuments(), extra...))
	})
	return defaultCorpus
}

// Default returns the process-wide corpus, initializing it with the
// built-in documents if Init has not run yet.
func Default() *Corpus {
	return Init()
}
