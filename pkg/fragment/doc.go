// Package fragment computes the load order of descriptor fragments
// contributed by the archives of a composite module.
//
// # Overview
//
// A module is assembled from one unordered classes root and any number of
// library archives. Each library may carry a partial descriptor that names
// the fragment and states where it wants to be loaded relative to other
// fragments. This package reconciles those hints into one total order, or
// fails deterministically when they contradict each other.
//
// The single entry point is [Order]. It selects one of three modes with
// [SelectMode] and returns the ordered fragments plus, for absolute ordering
// without an others marker, the excluded ones:
//
//	res, err := fragment.Order(fragment.Input{
//	    Module:     "shop.war",
//	    Candidates: candidates,
//	})
//	for _, f := range res.Ordered {
//	    fmt.Println(f.Name, f.Locator)
//	}
//
// # Modes
//
//   - [ModeOriginal]: discovery order, used for metadata-complete modules
//   - [ModeAbsolute]: the module lists fragment names explicitly, with an
//     optional others marker deciding whether unlisted fragments are kept
//   - [ModeRelative]: each fragment declares before/after constraints against
//     named peers or the implicit others bucket, resolved by topological sort
//
// Which of absolute ordering and metadata completeness wins depends on
// [SpecCompat]. [CompatLegacy] preserves the historical rule that checks
// metadata completeness first; [CompatCorrected] checks absolute ordering
// first. Both produce observably different orders and are kept side by side.
//
// # Names
//
// Every library fragment gets an assigned name for the duration of one run.
// Anonymous fragments receive a synthetic name built from [SyntheticNamePrefix]
// and an increasing counter that never collides with a declared or referenced
// name. Declaring the same name twice is a fatal error except under absolute
// ordering, where the duplicates simply cannot be selected by name.
//
// # Relative Ordering
//
// Relative ordering builds a run-scoped arena of nodes indexed by integer id.
// Before/after declarations are mirrored so the adjacency is symmetric, the
// before-others and after-others classifications are propagated along the
// constraint edges, and the nodes are linearized by a post-order depth-first
// traversal that uses an explicit stack. Fragments that carry no ordering
// information at all are spliced in at the position of the others bucket.
//
// # Errors
//
// All failures are returned as *errors.Error values from the errors package
// with one of the ordering codes. Cycles and classification conflicts carry a
// typed cause, [*CycleError] and [*ConflictError], reachable with errors.As.
//
// # Concurrency
//
// [Order] is a pure function of its input. All mutable graph state lives in
// the arena of a single call, so concurrent calls on different inputs are safe
// without locking.
package fragment
