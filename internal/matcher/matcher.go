// package matcher resolves user-typed names (artists, playlists) against a set of
// candidate names returned by a remote service.
//
// Resolution runs in three steps:
//  1. exact match after Unicode case folding, returning the candidate's casing
//  2. fuzzy match by normalized Levenshtein similarity, keeping the best candidate
//     at or above the cutoff
//  3. fallback to the query unchanged
//
// Resolution never fails.
package matcher

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultCutoff is the minimum similarity a candidate needs to be considered a fuzzy match.
const DefaultCutoff = 0.6

// Kind reports which resolution step produced an [Outcome].
type Kind int

const (
	Fallback Kind = iota
	Exact
	Fuzzy
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Fuzzy:
		return "fuzzy"
	default:
		return "fallback"
	}
}

// Outcome is the result of resolving a query.
type Outcome struct {
	Value string
	Kind  Kind
	Score float64
}

func (o Outcome) String() string { return o.Value }

// Matched reports whether a candidate was chosen.
func (o Outcome) Matched() bool { return o.Kind != Fallback }

// Matcher resolves queries with a configurable cutoff.
type Matcher struct {
	Cutoff float64
}

// Default is the matcher used by [Resolve].
var Default = Matcher{Cutoff: DefaultCutoff}

// New returns a matcher with the given cutoff; values outside (0, 1] use [DefaultCutoff].
func New(cutoff float64) Matcher {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}
	return Matcher{Cutoff: cutoff}
}

// Resolve resolves query against candidates with the default cutoff.
func Resolve(query string, candidates []string) Outcome {
	return Default.Resolve(query, candidates)
}

// Resolve picks the candidate that best matches query.
func (m Matcher) Resolve(query string, candidates []string) Outcome {
	if len(candidates) == 0 {
		return Outcome{Value: query, Kind: Fallback}
	}

	fold := cases.Fold()
	folded := fold.String(query)
	for _, c := range candidates {
		if fold.String(c) == folded {
			return Outcome{Value: c, Kind: Exact, Score: 1}
		}
	}

	q := simplify(query)
	best, bestScore := -1, 0.0
	for i, c := range candidates {
		score := Similarity(q, simplify(c))
		if score >= m.Cutoff && score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Outcome{Value: query, Kind: Fallback}
	}
	return Outcome{Value: candidates[best], Kind: Fuzzy, Score: bestScore}
}

// Similarity returns the normalized Levenshtein similarity of a and b in [0, 1].
//
// Empty inputs score 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(score)
}

// simplify folds case, strips combining marks and collapses whitespace.
func simplify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(out)), " ")
}
