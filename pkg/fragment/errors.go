package fragment

import (
	"fmt"
	"strings"

	apperr "github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
)

// CycleError reports a cycle in the before/after constraints.
//
// Path lists the fragment names in precedence order, each one required to be
// loaded before the next, and ends with the name it started with:
// ["a", "b", "c", "a"] means a before b, b before c and c before a.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("ordering cycle: %s", strings.Join(e.Path, " -> "))
}

// ConflictError reports a fragment that is required to be both before and
// after the others bucket.
//
// Node is the conflicting fragment. BeforeVia and AfterVia name the fragments
// whose own before-others and after-others declarations led to each
// classification; either may equal Node when the declaration is direct.
type ConflictError struct {
	Node      string `json:"node"`
	BeforeVia string `json:"before_via"`
	AfterVia  string `json:"after_via"`
}

func (e *ConflictError) Error() string {
	if e.BeforeVia == e.Node && e.AfterVia == e.Node {
		return fmt.Sprintf("fragment %q declares both before-others and after-others", e.Node)
	}
	return fmt.Sprintf("fragment %q is before others via %q and after others via %q",
		e.Node, e.BeforeVia, e.AfterVia)
}

func errDuplicateName(module, name, first, second string) error {
	return apperr.New(apperr.ErrCodeDuplicateFragmentName,
		"module %s: fragment name %q is declared by both %s and %s", module, name, first, second)
}

func errDuplicateReference(module, node, name, list string) error {
	return apperr.New(apperr.ErrCodeDuplicateOrderingReference,
		"module %s: fragment %q lists %q more than once in its %s ordering", module, node, name, list)
}

func errAmbiguousDeclaration(module, name, first, second string) error {
	return apperr.New(apperr.ErrCodeAmbiguousDuplicateDeclaration,
		"module %s: ordering metadata of %s and %s both declare fragment %q", module, first, second, name)
}

func errConflict(module string, c *ConflictError) error {
	return apperr.Wrap(apperr.ErrCodeOthersClassificationConflict, c, "module %s", module)
}

func errCycle(module string, c *CycleError) error {
	return apperr.Wrap(apperr.ErrCodeOrderingCycle, c, "module %s", module)
}
