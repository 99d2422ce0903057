package question

import "math/rand/v2"

// Drawer picks the next quiz question. It keeps no state between calls.
type Drawer struct {
	intN func(n int) int
}

// NewDrawer returns a Drawer backed by the goroutine-safe global source.
func NewDrawer() *Drawer {
	return &Drawer{intN: rand.IntN}
}

// NewDrawerWithSource uses intN to pick an index in [0, n).
func NewDrawerWithSource(intN func(n int) int) *Drawer {
	if intN == nil {
		intN = rand.IntN
	}
	return &Drawer{intN: intN}
}

// Draw returns one uniformly random question from pool that is in scope and
// not excluded. ok is false when no candidate remains.
func (d *Drawer) Draw(pool []Question, scope CategoryScope, excluded map[int64]struct{}) (q Question, ok bool) {
	candidates := pool
	if !scope.All {
		candidates = FilterByCategory(pool, scope.ID)
	}

	eligible := make([]Question, 0, len(candidates))
	for _, c := range candidates {
		if _, seen := excluded[c.ID]; !seen {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return Question{}, false
	}
	return eligible[d.intN(len(eligible))], true
}

func exclusionSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
