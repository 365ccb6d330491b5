package fragment

import "slices"

// Candidate describes one classpath entry that may contribute a fragment.
//
// A Candidate is either the classes root of the module (ClassesRoot set) or a
// library archive. Libraries may carry a partial descriptor providing Name,
// the ordering lists and the ordering flags; a library without a descriptor
// is an anonymous candidate with no ordering hints.
//
// Candidates are treated as immutable values. [Order] never modifies them or
// the slices they reference.
type Candidate struct {
	Locator          string   // Stable identifier of the origin archive
	Name             string   // Declared fragment name, empty when anonymous
	ClassesRoot      bool     // The unordered classes root of the module
	MetadataComplete bool     // Fragment descriptor is metadata-complete
	Before           []string // Names this fragment must precede
	After            []string // Names this fragment must follow
	BeforeOthers     bool     // Fragment must precede the others bucket
	AfterOthers      bool     // Fragment must follow the others bucket
}

// HasName reports whether the candidate declares a fragment name.
func (c Candidate) HasName() bool { return c.Name != "" }

// HasOrdering reports whether the candidate declares any ordering hint.
func (c Candidate) HasOrdering() bool {
	return len(c.Before) > 0 || len(c.After) > 0 || c.BeforeOthers || c.AfterOthers
}

// AbsoluteOrdering is the module-level explicit fragment sequence.
//
// Names listed in BeforeOthers are loaded first, in order, followed by the
// unlisted fragments when Others is set, followed by the names in
// AfterOthers. Without the others marker the unlisted fragments are excluded.
type AbsoluteOrdering struct {
	BeforeOthers []string `json:"before_others,omitempty"`
	AfterOthers  []string `json:"after_others,omitempty"`
	Others       bool     `json:"others"`
}

// AbsoluteOrderingBuilder assembles an [AbsoluteOrdering] from a flat element
// sequence as it appears in a module descriptor: names that precede the first
// others marker belong to the before list, all later names to the after list.
type AbsoluteOrderingBuilder struct {
	ao AbsoluteOrdering
}

// AddName appends a fragment name at the current position.
func (b *AbsoluteOrderingBuilder) AddName(name string) {
	if b.ao.Others {
		b.ao.AfterOthers = append(b.ao.AfterOthers, name)
		return
	}
	b.ao.BeforeOthers = append(b.ao.BeforeOthers, name)
}

// AddOthers records the others marker. Repeated markers have no further effect.
func (b *AbsoluteOrderingBuilder) AddOthers() {
	b.ao.Others = true
}

// Build returns the assembled ordering. The builder may be reused afterwards
// without affecting the returned value.
func (b *AbsoluteOrderingBuilder) Build() AbsoluteOrdering {
	return AbsoluteOrdering{
		BeforeOthers: slices.Clone(b.ao.BeforeOthers),
		AfterOthers:  slices.Clone(b.ao.AfterOthers),
		Others:       b.ao.Others,
	}
}

// Input is everything [Order] needs to order the fragments of one module.
type Input struct {
	// Module identifies the module in error messages.
	Module string

	// Candidates in classpath discovery order. At most one may be the
	// classes root; it is always placed first regardless of its position.
	Candidates []Candidate

	// MetadataComplete is the module descriptor's metadata-complete flag.
	MetadataComplete bool

	// Absolute is the module's absolute ordering, nil when absent.
	Absolute *AbsoluteOrdering

	// Compat selects the mode selection rule.
	Compat SpecCompat
}

// Fragment is one entry of the computed order.
type Fragment struct {
	Name        string `json:"name,omitempty"`
	Locator     string `json:"locator"`
	Seed        bool   `json:"seed"`
	ClassesRoot bool   `json:"classes_root,omitempty"`
}

// Result is the outcome of one ordering run.
type Result struct {
	Mode     Mode       `json:"mode"`
	Ordered  []Fragment `json:"ordered"`
	Excluded []Fragment `json:"excluded"`

	// Graph is the resolved constraint graph. It is only set for relative
	// ordering when at least one fragment declared ordering metadata.
	Graph *Graph `json:"graph,omitempty"`
}
