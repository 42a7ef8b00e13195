package engine

import (
	"math"
	"sort"
	"time"

	"github.com/example/liturgy-roster/internal/roster"
)

// scoreEpsilon bounds floating-point noise: scores closer than this are
// treated as tied and fall through to the seeded permutation.
const scoreEpsilon = 1e-9

// Candidate pairs a person with the fairness score computed for one slot.
type Candidate struct {
	Person roster.Person
	Score  float64
}

// slotStats carries the workload distribution of the current candidate set,
// computed once per slot so every candidate is normalized against the same
// baseline.
type slotStats struct {
	counts map[string]float64
	minEff float64
	maxEff float64
}

// workloadStats derives banded workload counts for the candidate set.
// Counts within the tolerance band of the mean are flattened onto the mean,
// so near-average candidates compare equal and noise does not churn the
// roster.
func (e *Engine) workloadStats(idx roster.AssignmentIndex, candidates []roster.Person, ref time.Time) slotStats {
	stats := slotStats{counts: make(map[string]float64, len(candidates))}
	if len(candidates) == 0 {
		return stats
	}
	window := time.Duration(e.fairWindow) * 24 * time.Hour
	total := 0.0
	raw := make(map[string]float64, len(candidates))
	for _, person := range candidates {
		count := float64(countInWindow(idx[person.ID], ref, window))
		raw[person.ID] = count
		total += count
	}
	mean := total / float64(len(candidates))
	band := float64(e.workloadBand)

	first := true
	for id, count := range raw {
		eff := count
		if math.Abs(count-mean) <= band {
			eff = mean
		}
		stats.counts[id] = eff
		if first || eff < stats.minEff {
			stats.minEff = eff
		}
		if first || eff > stats.maxEff {
			stats.maxEff = eff
		}
		first = false
	}
	return stats
}

// score computes the weighted sum of the normalized fairness components for
// a candidate already known to be eligible. Each component lies in [0, 1];
// higher means more desirable to assign.
func (e *Engine) score(idx roster.AssignmentIndex, stats slotStats, person roster.Person, event roster.Event, role string) float64 {
	workload := e.workloadComponent(stats, person.ID)
	recency := e.recencyComponent(idx[person.ID], event.Start)
	rotation := e.rotationComponent(idx[person.ID], event.Start, role)
	morning := 0.0
	if person.Morning && event.Start.Hour() < e.morningCutoff {
		morning = 1.0
	}
	solemn := 0.0
	if event.Kind == roster.KindSolemn {
		solemn = 1.0
	}

	return e.weights.LoadBalance*workload +
		e.weights.Recency*recency +
		e.weights.RoleRotation*rotation +
		e.weights.MorningPref*morning +
		e.weights.SolemnBonus*solemn
}

// workloadComponent is the inverse of the candidate's banded workload within
// the fairness window, normalized over the candidate spread. A flat spread
// scores everyone 0.5.
func (e *Engine) workloadComponent(stats slotStats, personID string) float64 {
	span := stats.maxEff - stats.minEff
	if span <= 0 {
		return 0.5
	}
	return 1 - (stats.counts[personID]-stats.minEff)/span
}

// recencyComponent grows with elapsed time since the last assignment of any
// role, saturating at the fairness window. Never-assigned is maximal.
func (e *Engine) recencyComponent(records []roster.ServiceRecord, ref time.Time) float64 {
	last, ok := lastBefore(records, ref, "")
	if !ok {
		return 1.0
	}
	days := ref.Sub(last).Hours() / 24
	window := float64(e.fairWindow)
	if days >= window {
		return 1.0
	}
	return days / window
}

// rotationComponent penalizes a repeat of this exact role inside the
// rotation window: the more recent the repeat, the lower the component.
func (e *Engine) rotationComponent(records []roster.ServiceRecord, ref time.Time, role string) float64 {
	if e.roleWindow <= 0 {
		return 1.0
	}
	last, ok := lastBefore(records, ref, role)
	if !ok {
		return 1.0
	}
	gap := ref.Sub(last).Hours() / 24
	window := float64(e.roleWindow)
	if gap >= window {
		return 1.0
	}
	return gap / window
}

func countInWindow(records []roster.ServiceRecord, ref time.Time, window time.Duration) int {
	lower := ref.Add(-window)
	count := 0
	for _, record := range records {
		if !record.Start.Before(lower) && record.Start.Before(ref) {
			count++
		}
	}
	return count
}

// lastBefore returns the most recent record start strictly before ref,
// optionally restricted to one role.
func lastBefore(records []roster.ServiceRecord, ref time.Time, role string) (time.Time, bool) {
	var last time.Time
	found := false
	for _, record := range records {
		if !record.Start.Before(ref) {
			continue
		}
		if role != "" && record.Role != role {
			continue
		}
		if !found || record.Start.After(last) {
			last = record.Start
			found = true
		}
	}
	return last, found
}

// rankCandidates scores and orders the eligible set for one slot: score
// descending, seeded permutation among ties, then folded name and id as the
// final stable fallback.
func (e *Engine) rankCandidates(st *roster.State, idx roster.AssignmentIndex, event roster.Event, role string, tie *TieBreaker) []Candidate {
	eligible := e.eligibleCandidates(st, idx, event, role)
	if len(eligible) == 0 {
		return nil
	}
	stats := e.workloadStats(idx, eligible, event.Start)

	candidates := make([]Candidate, 0, len(eligible))
	for _, person := range eligible {
		candidates = append(candidates, Candidate{Person: person, Score: e.score(idx, stats, person, event, role)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if math.Abs(a.Score-b.Score) > scoreEpsilon {
			return a.Score > b.Score
		}
		if ra, rb := tie.Rank(a.Person.ID), tie.Rank(b.Person.ID); ra != rb {
			return ra < rb
		}
		if na, nb := roster.FoldName(a.Person.Name), roster.FoldName(b.Person.Name); na != nb {
			return na < nb
		}
		return a.Person.ID < b.Person.ID
	})
	return candidates
}

func sortStrings(values []string) {
	sort.Strings(values)
}
