package fragment

import (
	apperr "github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
)

// Order computes the load order of the fragments in one module.
//
// The classes root, if present, always comes first. Under absolute ordering
// without the others marker, unlisted libraries are reported in
// Result.Excluded; every other mode places all candidates in Result.Ordered.
//
// Order is deterministic and performs no I/O. Errors are *errors.Error values
// from this module's errors package; ordering failures wrap a [*CycleError] or
// [*ConflictError] where one applies.
func Order(in Input) (*Result, error) {
	root := -1
	libs := make([]int, 0, len(in.Candidates))
	for i, c := range in.Candidates {
		if c.Locator == "" {
			return nil, apperr.New(apperr.ErrCodeInvalidInput,
				"module %s: candidate %d has no locator", in.Module, i)
		}
		if !c.ClassesRoot {
			libs = append(libs, i)
			continue
		}
		if root >= 0 {
			return nil, apperr.New(apperr.ErrCodeInvalidInput,
				"module %s: more than one classes root (%s, %s)",
				in.Module, in.Candidates[root].Locator, c.Locator)
		}
		root = i
	}

	mode := SelectMode(in.MetadataComplete, in.Absolute != nil, in.Compat)
	names, err := AssignNames(in.Module, in.Candidates, mode == ModeAbsolute)
	if err != nil {
		return nil, err
	}

	res := &Result{Mode: mode, Ordered: []Fragment{}, Excluded: []Fragment{}}
	var ordered, excluded []int
	switch mode {
	case ModeOriginal:
		ordered = libs
	case ModeAbsolute:
		ordered, excluded = orderAbsolute(in.Absolute, libs, names)
	case ModeRelative:
		rel, err := orderRelative(in.Module, in.Candidates, libs, names)
		if err != nil {
			return nil, err
		}
		ordered, res.Graph = rel.order, rel.graph
	}

	if root >= 0 {
		res.Ordered = append(res.Ordered, in.fragment(root, names))
	}
	for _, i := range ordered {
		res.Ordered = append(res.Ordered, in.fragment(i, names))
	}
	for _, i := range excluded {
		res.Excluded = append(res.Excluded, in.fragment(i, names))
	}
	return res, nil
}

func (in Input) fragment(i int, names *Names) Fragment {
	c := in.Candidates[i]
	f := Fragment{
		Locator:     c.Locator,
		ClassesRoot: c.ClassesRoot,
		Seed:        !in.MetadataComplete,
	}
	if !c.ClassesRoot {
		f.Name = names.Name(i)
		f.Seed = f.Seed && !c.MetadataComplete
	}
	return f
}
