// Package match scores citation records against scanned PDF candidates and
// assigns at most one PDF per citation.
package match

import (
	"sort"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/matsen/figbatch/internal/citation"
	"github.com/matsen/figbatch/internal/inventory"
)

// DefaultThreshold is the minimum score for a citation-PDF assignment.
// Higher = stricter match.
const DefaultThreshold = 0.55

// Assignment records the matching outcome for one citation.
type Assignment struct {
	CitationIndex int     `json:"citation_index"`
	Path          string  `json:"path,omitempty"` // empty when unmatched
	Score         float64 `json:"score"`
	Matched       bool    `json:"matched"`
}

var diceMetric = metrics.NewSorensenDice()

// Score computes the similarity between a citation and a PDF candidate in
// [0,1]. It takes the maximum of bigram similarity against the detected title
// and token containment against the full signature text, so a citation whose
// text appears verbatim in the candidate's signature scores 1.0.
func Score(c citation.Citation, e inventory.Entry) float64 {
	target := Normalize(c.Raw)
	if target == "" {
		return 0
	}

	var score float64
	if title := Normalize(e.Title); title != "" {
		score = strutil.Similarity(target, title, diceMetric)
	}
	if cont := containment(Tokens(c.Raw), tokenSet(e.Signature)); cont > score {
		score = cont
	}
	return score
}

// containment returns the fraction of citation tokens present in the
// candidate's token set.
func containment(tokens []string, set map[string]bool) float64 {
	if len(tokens) == 0 || len(set) == 0 {
		return 0
	}
	hits := 0
	for _, tok := range tokens {
		if set[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

// candidate pairs a scored entry with its scan position for ranking.
type candidate struct {
	entryIdx  int
	scanIndex int
	score     float64
}

// Assign matches each citation, in export order, to its best-scoring
// unclaimed PDF candidate at or above threshold. Each PDF is claimable by at
// most one citation; ties break toward the earliest-scanned candidate. When a
// citation's best candidate was already claimed by an earlier citation, it
// falls through to its next-highest unclaimed candidate. Entries with a scan
// error are never considered. Returns one assignment per citation, in order.
func Assign(cits []citation.Citation, entries []inventory.Entry, threshold float64) []Assignment {
	claimed := make(map[int]bool) // entry index -> claimed
	assignments := make([]Assignment, 0, len(cits))

	for _, c := range cits {
		var cands []candidate
		for i, e := range entries {
			if e.Err != nil {
				continue
			}
			if s := Score(c, e); s >= threshold {
				cands = append(cands, candidate{entryIdx: i, scanIndex: e.ScanIndex, score: s})
			}
		}

		sort.Slice(cands, func(a, b int) bool {
			if cands[a].score != cands[b].score {
				return cands[a].score > cands[b].score
			}
			return cands[a].scanIndex < cands[b].scanIndex
		})

		assignment := Assignment{CitationIndex: c.Index}
		for _, cand := range cands {
			if claimed[cand.entryIdx] {
				continue
			}
			claimed[cand.entryIdx] = true
			assignment.Path = entries[cand.entryIdx].Path
			assignment.Score = cand.score
			assignment.Matched = true
			break
		}

		assignments = append(assignments, assignment)
	}

	return assignments
}
