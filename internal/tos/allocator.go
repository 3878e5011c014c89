package tos

import (
	"math"
	"sort"
)

// Allocate produces one Row per requested competency such that row counts sum
// to exactly req.TotalItems and each row's per-level counts sum to the row
// count. Shares are apportioned by the largest-remainder method: floor every
// raw share, then hand the leftover units one each to the largest fractional
// remainders, ties broken by input order. Identical input yields identical
// output.
func Allocate(req AllocationRequest) ([]Row, error) {
	if req.TotalItems <= 0 {
		return nil, invalid("total items must be positive, got %d", req.TotalItems)
	}
	if len(req.Competencies) == 0 {
		return nil, invalid("at least one competency is required")
	}
	for _, c := range req.Competencies {
		if c.Sessions <= 0 {
			return nil, invalid("competency %s has non-positive weight %d", c.Code, c.Sessions)
		}
	}
	if err := validateProfile(req.Profile); err != nil {
		return nil, err
	}

	weights := make([]float64, len(req.Competencies))
	for i, c := range req.Competencies {
		weights[i] = float64(c.Sessions)
	}
	counts := apportion(req.TotalItems, weights)

	rows := make([]Row, len(req.Competencies))
	for i, c := range req.Competencies {
		rows[i] = Row{
			Competency: c,
			Count:      counts[i],
			ByLevel:    splitByLevel(counts[i], req.Profile),
		}
	}
	return rows, nil
}

func validateProfile(p Profile) error {
	sum := 0.0
	for i, w := range p {
		if w < 0 {
			return invalid("level weight for %s is negative", Level(i))
		}
		sum += w
	}
	if math.Abs(sum-1.0) > ProfileTolerance {
		return invalid("level weights sum to %.6f, want 1.0", sum)
	}
	return nil
}

func splitByLevel(count int, p Profile) [NumLevels]int {
	var out [NumLevels]int
	if count == 0 {
		return out
	}
	shares := apportion(count, p[:])
	copy(out[:], shares)
	return out
}

// apportion distributes total across len(weights) buckets proportionally to
// the weights, using largest-remainder rounding so the result sums to total
// exactly. Weights must be non-negative with a positive sum.
func apportion(total int, weights []float64) []int {
	sumW := 0.0
	for _, w := range weights {
		sumW += w
	}
	out := make([]int, len(weights))
	if sumW == 0 {
		return out
	}

	type frac struct {
		idx int
		rem float64
	}
	fracs := make([]frac, len(weights))
	assigned := 0
	for i, w := range weights {
		raw := float64(total) * w / sumW
		fl := math.Floor(raw)
		out[i] = int(fl)
		assigned += out[i]
		fracs[i] = frac{idx: i, rem: raw - fl}
	}

	// Stable sort keeps input order as the tie-break for equal remainders.
	sort.SliceStable(fracs, func(a, b int) bool {
		return fracs[a].rem > fracs[b].rem
	})
	for i := 0; i < total-assigned; i++ {
		out[fracs[i%len(fracs)].idx]++
	}
	return out
}

// Items expands rows into the numbered item plan: competencies in input
// order, levels in canonical order within each competency.
func Items(rows []Row) []Item {
	var items []Item
	n := 1
	for _, row := range rows {
		for _, lvl := range Levels() {
			t := TypeForLevel(lvl)
			for k := 0; k < row.ByLevel[lvl]; k++ {
				items = append(items, Item{
					Number:     n,
					Level:      lvl,
					Competency: row.Competency,
					Type:       t,
					Points:     PointsFor(t),
				})
				n++
			}
		}
	}
	return items
}

// TotalPoints sums the point values of an item plan.
func TotalPoints(items []Item) int {
	sum := 0
	for _, it := range items {
		sum += it.Points
	}
	return sum
}
