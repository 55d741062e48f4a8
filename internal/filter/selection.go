package filter

import (
	mapset "github.com/deckarep/golang-set/v2"

	"jobboard-engine/internal/domain"
)

// Selection is the accumulated set of lowercase terms, split by category.
// Neither list holds duplicates and both keep insertion order.
type Selection struct {
	Languages []string `json:"languages"`
	Tools     []string `json:"tools"`
}

func (s Selection) Empty() bool {
	return len(s.Languages) == 0 && len(s.Tools) == 0
}

// Terms is the chip order: languages first, then tools.
func (s Selection) Terms() []string {
	out := make([]string, 0, len(s.Languages)+len(s.Tools))
	out = append(out, s.Languages...)
	return append(out, s.Tools...)
}

func (s Selection) Clone() Selection {
	return Selection{
		Languages: append(make([]string, 0, len(s.Languages)), s.Languages...),
		Tools:     append(make([]string, 0, len(s.Tools)), s.Tools...),
	}
}

// Apply returns the ordered subsequence of jobs matching sel.
func Apply(jobs []domain.Job, sel Selection) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if Match(j, sel) {
			out = append(out, j)
		}
	}
	return out
}

// Match is true when j lists every selected language among its languages
// and every selected tool among its tools, ignoring case.
func Match(j domain.Job, sel Selection) bool {
	if len(sel.Languages) > 0 && !lowerSet(j.Languages).Contains(sel.Languages...) {
		return false
	}
	if len(sel.Tools) > 0 && !lowerSet(j.Tools).Contains(sel.Tools...) {
		return false
	}
	return true
}

func lowerSet(xs []string) mapset.Set[string] {
	s := mapset.NewThreadUnsafeSetWithSize[string](len(xs))
	for _, x := range xs {
		s.Add(Normalize(x))
	}
	return s
}
