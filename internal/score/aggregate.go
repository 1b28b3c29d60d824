package score

import "sort"

type groupKey struct {
	name       string
	identifier string
}

// CategoryProfiles folds the records of one assessment batch into RT rows.
//
// Per group and category the value is the MAX over the group's rows, where a row
// contributes its score when its label matches the category and 0 otherwise. The
// result is truncated to an int. Rows are sorted by name ascending; equal names keep
// the order in which their group first appeared.
func CategoryProfiles(assessmentID int, records []Record) []CategoryProfile {
	type acc struct {
		name, identifier string
		max              []float64
		seen             bool
	}
	index := make(map[groupKey]int)
	groups := make([]*acc, 0)

	for _, r := range records {
		if r.AssessmentID != assessmentID {
			continue
		}
		k := groupKey{r.Name, r.Identifier}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, &acc{name: r.Name, identifier: r.Identifier, max: make([]float64, len(categoryLabels))})
		}
		g := groups[i]
		for c, cl := range categoryLabels {
			v := 0.0
			if r.SubjectLabel == cl.Label {
				v = r.Score
			}
			if !g.seen || v > g.max[c] {
				g.max[c] = v
			}
		}
		g.seen = true
	}

	out := make([]CategoryProfile, len(groups))
	for i, g := range groups {
		cats := make(map[Category]int, len(categoryLabels))
		for c, cl := range categoryLabels {
			cats[cl.Category] = int(g.max[c])
		}
		out[i] = CategoryProfile{Name: g.name, Identifier: g.identifier, Categories: cats}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// CompositeScores folds the records of one assessment batch into ST rows.
//
// Each component is the SUM of score*weight over the group's rows for its subject,
// so repeated subjects accumulate. Total is the sum of the four component sums.
// Rows are sorted by total descending; ties keep group order.
func CompositeScores(assessmentID int, records []Record) []CompositeScore {
	index := make(map[groupKey]int)
	out := make([]CompositeScore, 0)

	for _, r := range records {
		if r.AssessmentID != assessmentID {
			continue
		}
		k := groupKey{r.Name, r.Identifier}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			comps := make(map[Component]float64, len(componentOrder))
			for _, c := range componentOrder {
				comps[c] = 0
			}
			out = append(out, CompositeScore{Name: r.Name, Identifier: r.Identifier, Components: comps})
		}
		if wc, ok := componentSubjects[r.SubjectID]; ok {
			out[i].Components[wc.Component] += r.Score * wc.Weight
		}
	}

	for i := range out {
		var total float64
		for _, c := range componentOrder {
			total += out[i].Components[c]
		}
		out[i].Total = total
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Total > out[b].Total })
	return out
}
