package fragment

// orderAbsolute resolves an absolute ordering over the library candidates
// libs, given as indices into the candidate slice in discovery order.
//
// Names that do not resolve to exactly one candidate are skipped. Listing a
// name twice only places it once.
func orderAbsolute(ao *AbsoluteOrdering, libs []int, names *Names) (ordered, excluded []int) {
	inPool := make(map[int]bool, len(libs))
	for _, i := range libs {
		inPool[i] = true
	}
	take := func(name string) {
		i, ok := names.Lookup(name)
		if !ok || !inPool[i] {
			return
		}
		delete(inPool, i)
		ordered = append(ordered, i)
	}

	for _, name := range ao.BeforeOthers {
		take(name)
	}
	splice := len(ordered)
	for _, name := range ao.AfterOthers {
		take(name)
	}

	var rest []int
	for _, i := range libs {
		if inPool[i] {
			rest = append(rest, i)
		}
	}
	if !ao.Others {
		return ordered, rest
	}

	out := make([]int, 0, len(ordered)+len(rest))
	out = append(out, ordered[:splice]...)
	out = append(out, rest...)
	out = append(out, ordered[splice:]...)
	return out, nil
}
