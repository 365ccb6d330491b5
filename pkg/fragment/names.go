package fragment

import (
	"strconv"
)

// SyntheticNamePrefix starts every name generated for an anonymous fragment.
const SyntheticNamePrefix = "fragment-"

// Names holds the names assigned to the candidates of one run.
type Names struct {
	assigned  []string       // candidate index -> assigned name ("" for the classes root)
	byName    map[string]int // unique declared or synthetic name -> candidate index
	ambiguous map[string]bool
	used      map[string]bool
}

// AssignNames gives every library candidate a name.
//
// Declared names are kept. A declared name that was already declared by an
// earlier candidate is an error unless allowDuplicates is set, in which case
// the name becomes ambiguous and [Names.Lookup] no longer resolves it.
//
// Anonymous candidates get SyntheticNamePrefix followed by the lowest counter
// value, starting at 1, whose result is not in use. Every declared name and
// every name referenced from any before/after list counts as in use, so a
// synthetic name never captures a constraint meant for another fragment.
//
// The classes root is never named and does not take part in collisions.
func AssignNames(module string, cands []Candidate, allowDuplicates bool) (*Names, error) {
	n := &Names{
		assigned:  make([]string, len(cands)),
		byName:    make(map[string]int, len(cands)),
		ambiguous: make(map[string]bool),
		used:      make(map[string]bool),
	}

	for _, c := range cands {
		if c.ClassesRoot {
			continue
		}
		if c.HasName() {
			n.used[c.Name] = true
		}
		for _, ref := range c.Before {
			n.used[ref] = true
		}
		for _, ref := range c.After {
			n.used[ref] = true
		}
	}

	next := 1
	for i, c := range cands {
		if c.ClassesRoot {
			continue
		}
		if !c.HasName() {
			name := SyntheticNamePrefix + strconv.Itoa(next)
			for n.used[name] {
				next++
				name = SyntheticNamePrefix + strconv.Itoa(next)
			}
			next++
			n.used[name] = true
			n.assigned[i] = name
			n.byName[name] = i
			continue
		}

		if first, dup := n.byName[c.Name]; dup || n.ambiguous[c.Name] {
			if !allowDuplicates {
				return nil, errDuplicateName(module, c.Name, cands[first].Locator, c.Locator)
			}
			n.ambiguous[c.Name] = true
			delete(n.byName, c.Name)
		} else {
			n.byName[c.Name] = i
		}
		n.assigned[i] = c.Name
	}

	return n, nil
}

// Name returns the name assigned to the candidate at index i.
// The classes root has the empty name.
func (n *Names) Name(i int) string { return n.assigned[i] }

// Lookup returns the index of the candidate with the given name.
// Ambiguous names and unknown names are not found.
func (n *Names) Lookup(name string) (int, bool) {
	i, ok := n.byName[name]
	return i, ok
}

// Ambiguous reports whether name was declared by more than one candidate.
func (n *Names) Ambiguous(name string) bool { return n.ambiguous[name] }

// Used reports whether name is declared, referenced or synthesized in this run.
func (n *Names) Used(name string) bool { return n.used[name] }
