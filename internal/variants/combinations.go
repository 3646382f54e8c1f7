package variants

import (
	"fmt"
	"sort"
	"strings"
)

// Selection binds one option axis to one chosen value.
type Selection struct {
	OptionID int64
	Value    string
	Position int
}

// Combination is a full assignment of one value per option axis.
type Combination []Selection

// Axis is one option together with the candidate values to expand.
type Axis struct {
	OptionID int64
	Name     string
	Position int
	Values   []string
}

// GenerateCombinations expands the Cartesian product of the axes. The first
// axis varies slowest and the last axis fastest, so for axes (Color: Red,
// Blue) and (Size: S, M) the order is Red/S, Red/M, Blue/S, Blue/M. An axis
// with no values collapses the product to nothing.
func GenerateCombinations(axes []Axis) []Combination {
	if len(axes) == 0 {
		return nil
	}

	total := 1
	for _, axis := range axes {
		if len(axis.Values) == 0 {
			return nil
		}
		total *= len(axis.Values)
	}

	combos := make([]Combination, 0, total)
	indices := make([]int, len(axes))
	for {
		combo := make(Combination, len(axes))
		for i, axis := range axes {
			combo[i] = Selection{
				OptionID: axis.OptionID,
				Value:    axis.Values[indices[i]],
				Position: axis.Position,
			}
		}
		combos = append(combos, combo)

		// Advance like an odometer, rightmost digit first.
		i := len(axes) - 1
		for i >= 0 {
			indices[i]++
			if indices[i] < len(axes[i].Values) {
				break
			}
			indices[i] = 0
			i--
		}
		if i < 0 {
			return combos
		}
	}
}

// Key renders the combination's identity, independent of selection order.
// Two variants describing the same option/value pairs produce equal keys.
func (c Combination) Key() string {
	pairs := make([]string, len(c))
	sorted := make(Combination, len(c))
	copy(sorted, c)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OptionID < sorted[j].OptionID })
	for i, sel := range sorted {
		pairs[i] = fmt.Sprintf("%d=%s", sel.OptionID, sel.Value)
	}
	return strings.Join(pairs, "|")
}

// Title joins the values in axis position order into a display name.
func (c Combination) Title() string {
	sorted := make(Combination, len(c))
	copy(sorted, c)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	values := make([]string, len(sorted))
	for i, sel := range sorted {
		values[i] = sel.Value
	}
	return strings.Join(values, " / ")
}
