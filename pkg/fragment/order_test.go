package fragment

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperr "github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
)

func root() Candidate {
	return Candidate{Locator: "WEB-INF/classes", ClassesRoot: true}
}

func lib(name string) Candidate {
	return Candidate{Locator: name + ".jar", Name: name}
}

func fragmentNames(fs []Fragment) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}

func TestOrder_UnnamedAfterBeforeOthers(t *testing.T) {
	y := lib("Y")
	y.BeforeOthers = true
	x := Candidate{Locator: "x.jar"}

	res, err := Order(Input{Module: "m", Candidates: []Candidate{root(), x, y}})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}

	if res.Mode != ModeRelative {
		t.Errorf("Mode = %v, want relative", res.Mode)
	}
	want := []string{"", "Y", SyntheticNamePrefix + "1"}
	if diff := cmp.Diff(want, fragmentNames(res.Ordered)); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}
	if !res.Ordered[0].ClassesRoot {
		t.Error("first fragment should be the classes root")
	}
	if res.Ordered[2].Locator != "x.jar" {
		t.Errorf("Ordered[2].Locator = %q, want x.jar", res.Ordered[2].Locator)
	}
	if len(res.Excluded) != 0 {
		t.Errorf("Excluded = %v, want empty", res.Excluded)
	}
}

func TestOrder_Absolute(t *testing.T) {
	tests := []struct {
		name         string
		abs          AbsoluteOrdering
		wantOrdered  []string
		wantExcluded []string
	}{
		{
			name:         "others included",
			abs:          AbsoluteOrdering{BeforeOthers: []string{"A"}, AfterOthers: []string{"B"}, Others: true},
			wantOrdered:  []string{"", "A", "C", "D", "B"},
			wantExcluded: []string{},
		},
		{
			name:         "others omitted",
			abs:          AbsoluteOrdering{BeforeOthers: []string{"A"}, AfterOthers: []string{"B"}},
			wantOrdered:  []string{"", "A", "B"},
			wantExcluded: []string{"C", "D"},
		},
		{
			name:         "unknown names skipped",
			abs:          AbsoluteOrdering{BeforeOthers: []string{"Z", "D"}, AfterOthers: []string{"Y"}},
			wantOrdered:  []string{"", "D"},
			wantExcluded: []string{"A", "B", "C"},
		},
		{
			name:         "name listed twice",
			abs:          AbsoluteOrdering{BeforeOthers: []string{"C"}, AfterOthers: []string{"C", "A"}, Others: true},
			wantOrdered:  []string{"", "C", "B", "D", "A"},
			wantExcluded: []string{},
		},
		{
			name:         "empty",
			abs:          AbsoluteOrdering{},
			wantOrdered:  []string{""},
			wantExcluded: []string{"A", "B", "C", "D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs := tt.abs
			res, err := Order(Input{
				Module:     "m",
				Candidates: []Candidate{lib("A"), root(), lib("B"), lib("C"), lib("D")},
				Absolute:   &abs,
			})
			if err != nil {
				t.Fatalf("Order() error: %v", err)
			}
			if res.Mode != ModeAbsolute {
				t.Errorf("Mode = %v, want absolute", res.Mode)
			}
			if diff := cmp.Diff(tt.wantOrdered, fragmentNames(res.Ordered)); diff != "" {
				t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantExcluded, fragmentNames(res.Excluded)); diff != "" {
				t.Errorf("Excluded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrder_DuplicateName(t *testing.T) {
	a := Candidate{Locator: "a.jar", Name: "shared"}
	b := Candidate{Locator: "b.jar", Name: "shared"}

	_, err := Order(Input{Module: "m", Candidates: []Candidate{a, b}})
	if !apperr.Is(err, apperr.ErrCodeDuplicateFragmentName) {
		t.Fatalf("Order() error = %v, want %s", err, apperr.ErrCodeDuplicateFragmentName)
	}
}

func TestOrder_DuplicateNameAbsolute(t *testing.T) {
	a := Candidate{Locator: "a.jar", Name: "shared"}
	b := Candidate{Locator: "b.jar", Name: "shared"}
	c := lib("C")

	tests := []struct {
		name         string
		others       bool
		wantOrdered  []string
		wantExcluded []string
	}{
		{"others", true, []string{"C", "a.jar", "b.jar"}, []string{}},
		{"no others", false, []string{"C"}, []string{"a.jar", "b.jar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Order(Input{
				Module:     "m",
				Candidates: []Candidate{a, b, c},
				Absolute:   &AbsoluteOrdering{BeforeOthers: []string{"shared", "C"}, Others: tt.others},
			})
			if err != nil {
				t.Fatalf("Order() error: %v", err)
			}

			locs := func(fs []Fragment) []string {
				out := make([]string, len(fs))
				for i, f := range fs {
					if f.Name == "shared" {
						out[i] = f.Locator
					} else {
						out[i] = f.Name
					}
				}
				return out
			}
			if diff := cmp.Diff(tt.wantOrdered, locs(res.Ordered)); diff != "" {
				t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantExcluded, locs(res.Excluded)); diff != "" {
				t.Errorf("Excluded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrder_Cycle(t *testing.T) {
	a, b, c := lib("A"), lib("B"), lib("C")
	a.Before = []string{"B"}
	b.Before = []string{"C"}
	c.Before = []string{"A"}

	_, err := Order(Input{Module: "m", Candidates: []Candidate{a, b, c}})
	if !apperr.Is(err, apperr.ErrCodeOrderingCycle) {
		t.Fatalf("Order() error = %v, want %s", err, apperr.ErrCodeOrderingCycle)
	}

	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v does not carry a *CycleError", err)
	}
	want := []string{"A", "B", "C", "A"}
	if diff := cmp.Diff(want, ce.Path); diff != "" {
		t.Errorf("cycle path mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_CycleOutsideStart(t *testing.T) {
	// A follows a two-node cycle; the report holds only the cycle.
	a, b, c := lib("A"), lib("B"), lib("C")
	a.After = []string{"B"}
	b.After = []string{"C"}
	c.After = []string{"B"}

	_, err := Order(Input{Module: "m", Candidates: []Candidate{a, b, c}})
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Order() error = %v, want a cycle", err)
	}
	want := []string{"B", "C", "B"}
	if diff := cmp.Diff(want, ce.Path); diff != "" {
		t.Errorf("cycle path mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_SelfReference(t *testing.T) {
	a := lib("A")
	a.Before = []string{"A"}

	_, err := Order(Input{Module: "m", Candidates: []Candidate{a}})
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Order() error = %v, want a cycle", err)
	}
	if diff := cmp.Diff([]string{"A", "A"}, ce.Path); diff != "" {
		t.Errorf("cycle path mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_Conflict(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		a := lib("A")
		a.BeforeOthers, a.AfterOthers = true, true

		_, err := Order(Input{Module: "m", Candidates: []Candidate{a}})
		var ce *ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("Order() error = %v, want a conflict", err)
		}
		want := ConflictError{Node: "A", BeforeVia: "A", AfterVia: "A"}
		if diff := cmp.Diff(want, *ce); diff != "" {
			t.Errorf("conflict mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		a, b := lib("A"), lib("B")
		a.AfterOthers = true
		a.Before = []string{"B"}
		b.BeforeOthers = true

		_, err := Order(Input{Module: "m", Candidates: []Candidate{a, b}})
		if !apperr.Is(err, apperr.ErrCodeOthersClassificationConflict) {
			t.Fatalf("Order() error = %v, want %s", err, apperr.ErrCodeOthersClassificationConflict)
		}
		var ce *ConflictError
		if !errors.As(err, &ce) {
			t.Fatalf("error %v does not carry a *ConflictError", err)
		}
		want := ConflictError{Node: "B", BeforeVia: "B", AfterVia: "A"}
		if diff := cmp.Diff(want, *ce); diff != "" {
			t.Errorf("conflict mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("transitive", func(t *testing.T) {
		// C must precede B which is before others, and follow A which is after others.
		a, b, c := lib("A"), lib("B"), lib("C")
		a.AfterOthers = true
		b.BeforeOthers = true
		c.After = []string{"A"}
		c.Before = []string{"B"}

		_, err := Order(Input{Module: "m", Candidates: []Candidate{a, b, c}})
		if !apperr.Is(err, apperr.ErrCodeOthersClassificationConflict) {
			t.Fatalf("Order() error = %v, want %s", err, apperr.ErrCodeOthersClassificationConflict)
		}
	})
}

func TestOrder_DuplicateReference(t *testing.T) {
	a, b := lib("A"), lib("B")
	a.After = []string{"B", "B"}

	_, err := Order(Input{Module: "m", Candidates: []Candidate{a, b}})
	if !apperr.Is(err, apperr.ErrCodeDuplicateOrderingReference) {
		t.Fatalf("Order() error = %v, want %s", err, apperr.ErrCodeDuplicateOrderingReference)
	}
}

// Order rejects duplicate names before relative ordering starts, so the
// relative orderer's own duplicate check is exercised directly.
func TestOrderRelative_AmbiguousDeclaration(t *testing.T) {
	first, second, y := lib("X"), lib("X"), lib("Y")
	first.Before = []string{"Y"}
	second.Locator = "x2.jar"
	cands := []Candidate{first, second, y}

	names, err := AssignNames("m", cands, true)
	if err != nil {
		t.Fatalf("AssignNames() error: %v", err)
	}
	_, err = orderRelative("m", cands, []int{0, 1, 2}, names)
	if !apperr.Is(err, apperr.ErrCodeAmbiguousDuplicateDeclaration) {
		t.Fatalf("orderRelative() error = %v, want %s", err, apperr.ErrCodeAmbiguousDuplicateDeclaration)
	}
}

func TestOrder_AnonymousWithHints(t *testing.T) {
	c, a := lib("C"), lib("A")
	c.BeforeOthers = true
	a.After = []string{SyntheticNamePrefix + "1"}
	plain := Candidate{Locator: "y.jar"}
	hinted := Candidate{Locator: "x.jar", Before: []string{"C"}}

	res, err := Order(Input{Module: "m", Candidates: []Candidate{c, plain, a, hinted}})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}

	// fragment-1 is taken by A's reference, so the anonymous fragments are
	// named fragment-2 and fragment-3 and the reference binds to neither.
	want := []string{SyntheticNamePrefix + "3", "C", "A", SyntheticNamePrefix + "2"}
	if diff := cmp.Diff(want, fragmentNames(res.Ordered)); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}
	wantEdges := []GraphEdge{{Before: SyntheticNamePrefix + "3", After: "C"}}
	if diff := cmp.Diff(wantEdges, res.Graph.Edges); diff != "" {
		t.Errorf("Edges mismatch (-want +got):\n%s", diff)
	}
	for _, n := range res.Graph.Nodes {
		if n.Name == SyntheticNamePrefix+"3" && n.Class != ClassBeforeOthers {
			t.Errorf("%s class = %s, want before-others", n.Name, n.Class)
		}
		if n.Name == SyntheticNamePrefix+"2" {
			t.Errorf("anonymous fragment without hints should stay out of the graph")
		}
	}
}

func TestOrder_Relative(t *testing.T) {
	a, b, d, e, f := lib("A"), lib("B"), lib("D"), lib("E"), lib("F")
	a.After = []string{"B"}
	d.AfterOthers = true
	e.BeforeOthers = true
	e.After = []string{"F", "missing"}
	anon := Candidate{Locator: "anon.jar"}

	res, err := Order(Input{Module: "m", Candidates: []Candidate{a, b, anon, d, e, root(), f}})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}

	want := []string{"", "F", "E", "B", "A", SyntheticNamePrefix + "1", "D"}
	if diff := cmp.Diff(want, fragmentNames(res.Ordered)); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}

	if res.Graph == nil {
		t.Fatal("Graph is nil")
	}
	classes := map[string]Classification{}
	for _, n := range res.Graph.Nodes {
		classes[n.Name] = n.Class
	}
	wantClasses := map[string]Classification{
		"A":            ClassUnspecified,
		"B":            ClassUnspecified,
		"D":            ClassAfterOthers,
		"E":            ClassBeforeOthers,
		"F":            ClassBeforeOthers,
		OthersNodeName: ClassUnspecified,
	}
	if diff := cmp.Diff(wantClasses, classes); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	wantEdges := []GraphEdge{{Before: "B", After: "A"}, {Before: "F", After: "E"}}
	if diff := cmp.Diff(wantEdges, res.Graph.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_DefersUnconstrainedNames(t *testing.T) {
	g, h := lib("G"), lib("H")
	h.BeforeOthers = true
	anon := Candidate{Locator: "anon.jar"}
	i := lib("I")
	i.AfterOthers = true

	res, err := Order(Input{Module: "m", Candidates: []Candidate{g, anon, i, h}})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	want := []string{"H", "G", SyntheticNamePrefix + "1", "I"}
	if diff := cmp.Diff(want, fragmentNames(res.Ordered)); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_ReferencedNameKeepsConstraint(t *testing.T) {
	// B has no metadata of its own but C follows it, so B is not moved
	// past C to the others position.
	b, c := lib("B"), lib("C")
	c.After = []string{"B"}

	res, err := Order(Input{Module: "m", Candidates: []Candidate{b, c}})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if diff := cmp.Diff([]string{"B", "C"}, fragmentNames(res.Ordered)); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_NoHintsKeepsDiscoveryOrder(t *testing.T) {
	res, err := Order(Input{
		Module:     "m",
		Candidates: []Candidate{lib("B"), {Locator: "x.jar"}, root(), lib("A")},
	})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	want := []string{"", "B", SyntheticNamePrefix + "1", "A"}
	if diff := cmp.Diff(want, fragmentNames(res.Ordered)); diff != "" {
		t.Errorf("Ordered mismatch (-want +got):\n%s", diff)
	}
	if res.Graph != nil {
		t.Error("Graph should be nil without ordering metadata")
	}
}

func TestOrder_Original(t *testing.T) {
	a, b := lib("A"), lib("B")
	a.After = []string{"B"}

	for _, compat := range []SpecCompat{CompatLegacy, CompatCorrected} {
		res, err := Order(Input{
			Module:           "m",
			Candidates:       []Candidate{a, b},
			MetadataComplete: true,
			Compat:           compat,
		})
		if err != nil {
			t.Fatalf("Order(%v) error: %v", compat, err)
		}
		if res.Mode != ModeOriginal {
			t.Errorf("Order(%v) mode = %v, want original", compat, res.Mode)
		}
		if diff := cmp.Diff([]string{"A", "B"}, fragmentNames(res.Ordered)); diff != "" {
			t.Errorf("Order(%v) mismatch (-want +got):\n%s", compat, diff)
		}
		for _, f := range res.Ordered {
			if f.Seed {
				t.Errorf("fragment %s should not be a seed in a metadata-complete module", f.Name)
			}
		}
	}
}

func TestOrder_LegacyPrefersCompleteness(t *testing.T) {
	in := Input{
		Module:           "m",
		Candidates:       []Candidate{lib("A"), lib("B")},
		MetadataComplete: true,
		Absolute:         &AbsoluteOrdering{BeforeOthers: []string{"B"}},
	}

	in.Compat = CompatLegacy
	legacy, err := Order(in)
	if err != nil {
		t.Fatalf("legacy Order() error: %v", err)
	}
	in.Compat = CompatCorrected
	corrected, err := Order(in)
	if err != nil {
		t.Fatalf("corrected Order() error: %v", err)
	}

	if diff := cmp.Diff([]string{"A", "B"}, fragmentNames(legacy.Ordered)); diff != "" {
		t.Errorf("legacy mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B"}, fragmentNames(corrected.Ordered)); diff != "" {
		t.Errorf("corrected mismatch (-want +got):\n%s", diff)
	}
}

func TestOrder_Seed(t *testing.T) {
	complete := lib("C")
	complete.MetadataComplete = true

	res, err := Order(Input{Module: "m", Candidates: []Candidate{root(), lib("A"), complete}})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	want := map[string]bool{"": true, "A": true, "C": false}
	for _, f := range res.Ordered {
		if f.Seed != want[f.Name] {
			t.Errorf("fragment %q Seed = %v, want %v", f.Name, f.Seed, want[f.Name])
		}
	}
}

func TestOrder_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		cands []Candidate
	}{
		{"two roots", []Candidate{root(), lib("A"), {Locator: "other/classes", ClassesRoot: true}}},
		{"missing locator", []Candidate{lib("A"), {Name: "B"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Order(Input{Module: "m", Candidates: tt.cands})
			if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
				t.Errorf("Order() error = %v, want %s", err, apperr.ErrCodeInvalidInput)
			}
		})
	}
}

func TestOrder_Empty(t *testing.T) {
	res, err := Order(Input{Module: "m"})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if len(res.Ordered) != 0 || len(res.Excluded) != 0 {
		t.Errorf("Order() = %+v, want empty result", res)
	}
}

// randomModule builds n named fragments with constraints drawn from a hidden
// total order, so a valid order always exists. Fragments early in that order
// may be before others and late ones after others, which never conflicts.
// Anonymous fragments without hints and a classes root are mixed in at
// random positions.
func randomModule(r *rand.Rand, n int) []Candidate {
	perm := r.Perm(n)
	cands := make([]Candidate, n)
	for i := range cands {
		cands[i] = lib(fmt.Sprintf("f%02d", i))
	}
	for k := 0; k < n*2; k++ {
		p, q := r.IntN(n), r.IntN(n)
		if p == q {
			continue
		}
		if p > q {
			p, q = q, p
		}
		first, second := perm[p], perm[q]
		if r.IntN(2) == 0 {
			if !slices.Contains(cands[first].Before, cands[second].Name) {
				cands[first].Before = append(cands[first].Before, cands[second].Name)
			}
		} else if !slices.Contains(cands[second].After, cands[first].Name) {
			cands[second].After = append(cands[second].After, cands[first].Name)
		}
	}
	for p, i := range perm {
		if r.IntN(3) != 0 {
			continue
		}
		switch {
		case p < n/3:
			cands[i].BeforeOthers = true
		case p >= n-n/3:
			cands[i].AfterOthers = true
		}
	}

	for k, anon := 0, r.IntN(4); k < anon; k++ {
		at := r.IntN(len(cands) + 1)
		cands = slices.Insert(cands, at, Candidate{Locator: fmt.Sprintf("anon%d.jar", k)})
	}
	if r.IntN(2) == 0 {
		cands = slices.Insert(cands, r.IntN(len(cands)+1), root())
	}
	return cands
}

func TestOrder_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for run := 0; run < 300; run++ {
		cands := randomModule(r, 2+r.IntN(14))
		in := Input{Module: "m", Candidates: cands}

		res, err := Order(in)
		if err != nil {
			t.Fatalf("run %d: Order() error: %v", run, err)
		}
		again, err := Order(in)
		if err != nil {
			t.Fatalf("run %d: second Order() error: %v", run, err)
		}
		if diff := cmp.Diff(res, again); diff != "" {
			t.Fatalf("run %d: not deterministic (-first +second):\n%s", run, diff)
		}

		if len(res.Ordered) != len(cands) || len(res.Excluded) != 0 {
			t.Fatalf("run %d: ordered %d of %d candidates", run, len(res.Ordered), len(cands))
		}
		pos := make(map[string]int, len(res.Ordered))
		for i, f := range res.Ordered {
			pos[f.Locator] = i
		}
		var others []int
		for _, c := range cands {
			p, ok := pos[c.Locator]
			if !ok {
				t.Fatalf("run %d: %s missing from result", run, c.Locator)
			}
			if c.ClassesRoot && p != 0 {
				t.Errorf("run %d: classes root at %d, want 0", run, p)
			}
			if !c.ClassesRoot && !c.HasName() {
				others = append(others, p)
			}
		}
		if res.Graph == nil {
			continue
		}

		for _, e := range res.Graph.Edges {
			if pos[e.Before+".jar"] >= pos[e.After+".jar"] {
				t.Errorf("run %d: %s should precede %s", run, e.Before, e.After)
			}
		}
		for _, n := range res.Graph.Nodes {
			p := pos[n.Name+".jar"]
			for _, o := range others {
				switch {
				case n.Class == ClassBeforeOthers && p > o:
					t.Errorf("run %d: before-others %s at %d follows anonymous fragment at %d", run, n.Name, p, o)
				case n.Class == ClassAfterOthers && p < o:
					t.Errorf("run %d: after-others %s at %d precedes anonymous fragment at %d", run, n.Name, p, o)
				}
			}
			for _, m := range res.Graph.Nodes {
				if n.Class == ClassBeforeOthers && m.Class == ClassAfterOthers && p > pos[m.Name+".jar"] {
					t.Errorf("run %d: before-others %s follows after-others %s", run, n.Name, m.Name)
				}
			}
		}
	}
}
