package io

import (
	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/fragment"
)

// Manifest describes one module: its classpath entries in discovery order
// together with the module-level ordering settings.
type Manifest struct {
	Name             string        `json:"name" toml:"name" yaml:"name"`
	MetadataComplete bool          `json:"metadata_complete,omitempty" toml:"metadata_complete" yaml:"metadata_complete"`
	LegacyCompat     bool          `json:"legacy_compat,omitempty" toml:"legacy_compat" yaml:"legacy_compat"`
	AbsoluteOrdering *AbsoluteSpec `json:"absolute_ordering,omitempty" toml:"absolute_ordering" yaml:"absolute_ordering"`
	Entries          []Entry       `json:"entries" toml:"entries" yaml:"entries"`
}

// AbsoluteSpec is the module's absolute ordering. It is written either as
// explicit lists or as a flat element sequence, never both.
type AbsoluteSpec struct {
	BeforeOthers []string  `json:"before_others,omitempty" toml:"before_others" yaml:"before_others"`
	AfterOthers  []string  `json:"after_others,omitempty" toml:"after_others" yaml:"after_others"`
	Others       bool      `json:"others,omitempty" toml:"others" yaml:"others"`
	Elements     []Element `json:"elements,omitempty" toml:"elements" yaml:"elements"`
}

// Element is one item of an absolute ordering sequence: a fragment name or
// the others marker.
type Element struct {
	Name   string `json:"name,omitempty" toml:"name" yaml:"name"`
	Others bool   `json:"others,omitempty" toml:"others" yaml:"others"`
}

// Entry is one classpath entry.
type Entry struct {
	Locator     string      `json:"locator" toml:"locator" yaml:"locator"`
	ClassesRoot bool        `json:"classes_root,omitempty" toml:"classes_root" yaml:"classes_root"`
	Descriptor  *Descriptor `json:"descriptor,omitempty" toml:"descriptor" yaml:"descriptor"`
}

// Descriptor is the partial descriptor carried by a library entry.
type Descriptor struct {
	Name             string    `json:"name,omitempty" toml:"name" yaml:"name"`
	MetadataComplete bool      `json:"metadata_complete,omitempty" toml:"metadata_complete" yaml:"metadata_complete"`
	Ordering         *Ordering `json:"ordering,omitempty" toml:"ordering" yaml:"ordering"`
}

// Ordering holds the relative ordering hints of a descriptor.
type Ordering struct {
	Before       []string `json:"before,omitempty" toml:"before" yaml:"before"`
	After        []string `json:"after,omitempty" toml:"after" yaml:"after"`
	BeforeOthers bool     `json:"before_others,omitempty" toml:"before_others" yaml:"before_others"`
	AfterOthers  bool     `json:"after_others,omitempty" toml:"after_others" yaml:"after_others"`
}

// Input converts the manifest into the input of [fragment.Order].
//
// It checks the structure the engine cannot see: every entry needs a
// locator, absolute ordering elements must be either a name or the others
// marker, and a classes root carries no descriptor.
func (m *Manifest) Input() (fragment.Input, error) {
	in := fragment.Input{
		Module:           m.Name,
		MetadataComplete: m.MetadataComplete,
		Candidates:       make([]fragment.Candidate, 0, len(m.Entries)),
	}
	if in.Module == "" {
		in.Module = "module"
	}
	if m.LegacyCompat {
		in.Compat = fragment.CompatLegacy
	}

	if m.AbsoluteOrdering != nil {
		ao, err := m.AbsoluteOrdering.build()
		if err != nil {
			return fragment.Input{}, err
		}
		in.Absolute = &ao
	}

	for i, e := range m.Entries {
		if e.Locator == "" {
			return fragment.Input{}, errors.New(errors.ErrCodeInvalidManifest, "entry %d: missing locator", i)
		}
		c := fragment.Candidate{Locator: e.Locator, ClassesRoot: e.ClassesRoot}
		if d := e.Descriptor; d != nil {
			if e.ClassesRoot {
				return fragment.Input{}, errors.New(errors.ErrCodeInvalidManifest,
					"entry %s: classes root cannot carry a fragment descriptor", e.Locator)
			}
			c.Name = d.Name
			c.MetadataComplete = d.MetadataComplete
			if o := d.Ordering; o != nil {
				c.Before = o.Before
				c.After = o.After
				c.BeforeOthers = o.BeforeOthers
				c.AfterOthers = o.AfterOthers
			}
		}
		in.Candidates = append(in.Candidates, c)
	}
	return in, nil
}

func (s *AbsoluteSpec) build() (fragment.AbsoluteOrdering, error) {
	if len(s.Elements) == 0 {
		return fragment.AbsoluteOrdering{
			BeforeOthers: s.BeforeOthers,
			AfterOthers:  s.AfterOthers,
			Others:       s.Others,
		}, nil
	}
	if len(s.BeforeOthers) > 0 || len(s.AfterOthers) > 0 || s.Others {
		return fragment.AbsoluteOrdering{}, errors.New(errors.ErrCodeInvalidManifest,
			"absolute_ordering: use either elements or before_others/after_others/others")
	}

	var b fragment.AbsoluteOrderingBuilder
	for i, el := range s.Elements {
		switch {
		case el.Others && el.Name != "":
			return fragment.AbsoluteOrdering{}, errors.New(errors.ErrCodeInvalidManifest,
				"absolute_ordering element %d: both name and others", i)
		case el.Others:
			b.AddOthers()
		case el.Name != "":
			b.AddName(el.Name)
		default:
			return fragment.AbsoluteOrdering{}, errors.New(errors.ErrCodeInvalidManifest,
				"absolute_ordering element %d: empty", i)
		}
	}
	return b.Build(), nil
}
