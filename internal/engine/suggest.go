package engine

import (
	"github.com/example/liturgy-roster/internal/roster"
)

// DefaultSuggestionLimit is the top-N applied when the caller passes a
// non-positive limit.
const DefaultSuggestionLimit = 5

// Suggest ranks the eligible candidates for one slot without mutating
// state. The ordering matches what Recalculate would use for the same seed,
// and raising topN only ever appends entries. No eligible candidate yields
// an empty list, not an error.
func (e *Engine) Suggest(st *roster.State, event roster.Event, role string, topN int, seed *int64) []Candidate {
	if topN <= 0 {
		topN = DefaultSuggestionLimit
	}
	idx := st.BuildAssignmentIndex()
	tie := NewTieBreaker(personIDs(st), seed)
	ranked := e.rankCandidates(st, idx, event, role, tie)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
