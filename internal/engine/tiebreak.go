package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sort"
)

// TieBreaker assigns every person a position in a pseudo-random permutation
// of the whole roster. Candidates whose scores compare equal within
// tolerance are ordered by that position, so a fixed seed makes tie
// resolution fully reproducible while never influencing non-tied ordering.
type TieBreaker struct {
	rank map[string]int
}

// NewTieBreaker permutes the given person ids. With a nil seed a fresh
// random seed is drawn, leaving ties unordered between runs. The generator
// is local; no global randomness state is touched.
func NewTieBreaker(personIDs []string, seed *int64) *TieBreaker {
	ids := append([]string(nil), personIDs...)
	sort.Strings(ids)

	value := freshSeed()
	if seed != nil {
		value = *seed
	}
	rng := rand.New(rand.NewPCG(uint64(value), uint64(value)^0x9e3779b97f4a7c15))
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	return &TieBreaker{rank: rank}
}

// Rank returns the permutation position of the person. Unknown ids sort
// last.
func (t *TieBreaker) Rank(personID string) int {
	if pos, ok := t.rank[personID]; ok {
		return pos
	}
	return len(t.rank)
}

func freshSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
