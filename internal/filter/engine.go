// Package filter keeps the tag selection a user builds up while browsing
// the listing and derives the matching subset of jobs from it.
package filter

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"jobboard-engine/internal/domain"
)

// Category is the kind of tag a term refers to.
type Category int

const (
	Unknown Category = iota
	Language
	Tool
)

func (c Category) String() string {
	switch c {
	case Language:
		return "language"
	case Tool:
		return "tool"
	default:
		return "unknown"
	}
}

// JobSource is the read side of the job store.
type JobSource interface {
	All() []domain.Job
}

// Jobs adapts a plain slice to JobSource.
type Jobs []domain.Job

func (j Jobs) All() []domain.Job { return j }

// Index knows every language and tool in the listing. It is built once
// and only read afterwards, so one Index may back many engines.
type Index struct {
	languages mapset.Set[string]
	tools     mapset.Set[string]
}

func NewIndex(src JobSource) *Index {
	ix := &Index{
		languages: mapset.NewThreadUnsafeSet[string](),
		tools:     mapset.NewThreadUnsafeSet[string](),
	}
	for _, j := range src.All() {
		for _, l := range j.Languages {
			ix.languages.Add(Normalize(l))
		}
		for _, t := range j.Tools {
			ix.tools.Add(Normalize(t))
		}
	}
	return ix
}

// Classify reports whether term names a language or a tool of any job.
// A term known as both is a Language.
func (ix *Index) Classify(term string) Category {
	t := Normalize(term)
	if t == "" {
		return Unknown
	}
	switch {
	case ix.languages.Contains(t):
		return Language
	case ix.tools.Contains(t):
		return Tool
	default:
		return Unknown
	}
}

// NewEngine starts an empty selection over ix.
func (ix *Index) NewEngine() *Engine {
	return &Engine{index: ix}
}

// Engine holds one user's selection. It is not safe for concurrent use;
// callers that share an Engine serialise access themselves.
type Engine struct {
	index *Index
	sel   Selection
}

// New indexes src and returns an engine with nothing selected.
func New(src JobSource) *Engine {
	return NewIndex(src).NewEngine()
}

// Normalize maps a term to the form stored in a Selection.
func Normalize(term string) string {
	return strings.ToLower(term)
}

func (e *Engine) Classify(term string) Category {
	return e.index.Classify(term)
}

// Add selects term. Unknown terms and terms already selected are ignored.
// It reports whether the selection changed.
func (e *Engine) Add(term string) bool {
	t := Normalize(term)
	switch e.Classify(t) {
	case Language:
		return appendUnique(&e.sel.Languages, t)
	case Tool:
		return appendUnique(&e.sel.Tools, t)
	default:
		return false
	}
}

// Remove drops term from both lists and reports whether it was selected.
func (e *Engine) Remove(term string) bool {
	t := Normalize(term)
	a := removeAll(&e.sel.Languages, t)
	b := removeAll(&e.sel.Tools, t)
	return a || b
}

func (e *Engine) Reset() {
	e.sel = Selection{}
}

// IsActive is true while at least one term is selected.
func (e *Engine) IsActive() bool {
	return !e.sel.Empty()
}

// Apply returns the jobs matching the current selection, in input order.
func (e *Engine) Apply(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if e.Matches(j) {
			out = append(out, j)
		}
	}
	return out
}

// Matches reports whether j satisfies the current selection.
func (e *Engine) Matches(j domain.Job) bool {
	return Match(j, e.sel)
}

// SelectedTerms lists languages then tools, each in the order they were added.
func (e *Engine) SelectedTerms() []string {
	return e.sel.Terms()
}

// Selection returns a copy of the current selection.
func (e *Engine) Selection() Selection {
	return e.sel.Clone()
}

func appendUnique(list *[]string, t string) bool {
	for _, s := range *list {
		if s == t {
			return false
		}
	}
	*list = append(*list, t)
	return true
}

func removeAll(list *[]string, t string) bool {
	kept := (*list)[:0]
	removed := false
	for _, s := range *list {
		if s == t {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		kept = nil
	}
	*list = kept
	return removed
}
