package score

// categoryLabels maps the stored subject label to its RT category. Matching is exact
// and case-sensitive.
var categoryLabels = []struct {
	Label    string
	Category Category
}{
	{"ARTISTIC", Artistic},
	{"CONVENTIONAL", Conventional},
	{"ENTERPRISING", Enterprising},
	{"INVESTIGATIVE", Investigative},
	{"REALISTIC", Realistic},
	{"SOCIAL", Social},
}

type weightedComponent struct {
	Component Component
	Weight    float64
}

// componentSubjects maps a subject id to its ST component and multiplier.
var componentSubjects = map[int]weightedComponent{
	44: {Verbal, 41.67},
	45: {Quantitative, 29.67},
	46: {Reasoning, 100},
	47: {Figural, 23.81},
}

var componentOrder = []Component{Verbal, Quantitative, Reasoning, Figural}

// Components lists the ST components in a fixed order.
func Components() []Component {
	return append([]Component(nil), componentOrder...)
}

// Categories lists the RT categories in a fixed order.
func Categories() []Category {
	out := make([]Category, len(categoryLabels))
	for i, c := range categoryLabels {
		out[i] = c.Category
	}
	return out
}
