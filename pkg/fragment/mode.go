package fragment

import "fmt"

// Mode is the ordering strategy chosen for a module.
type Mode int

const (
	// ModeOriginal keeps the discovery order of the candidates.
	ModeOriginal Mode = iota
	// ModeAbsolute follows the module's explicit absolute ordering.
	ModeAbsolute
	// ModeRelative resolves the fragments' before/after constraints.
	ModeRelative
)

var modeNames = map[Mode]string{
	ModeOriginal: "original",
	ModeAbsolute: "absolute",
	ModeRelative: "relative",
}

// String returns the lower-case mode name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	for k, v := range modeNames {
		if v == string(text) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown ordering mode %q", text)
}

// SpecCompat selects between the two supported mode selection rules.
// The zero value is [CompatCorrected].
type SpecCompat int

const (
	// CompatCorrected checks absolute ordering before metadata completeness.
	CompatCorrected SpecCompat = iota
	// CompatLegacy checks metadata completeness before absolute ordering.
	// It exists for the one frozen compatibility level that shipped with
	// that rule.
	CompatLegacy
)

// String returns "corrected" or "legacy".
func (c SpecCompat) String() string {
	if c == CompatLegacy {
		return "legacy"
	}
	return "corrected"
}

// SelectMode decides how the fragments of a module are ordered.
//
//	compat     complete  absolute  mode
//	legacy     true      any       original
//	legacy     false     true      absolute
//	legacy     false     false     relative
//	corrected  any       true      absolute
//	corrected  true      false     original
//	corrected  false     false     relative
func SelectMode(metadataComplete, hasAbsolute bool, compat SpecCompat) Mode {
	if compat == CompatLegacy {
		switch {
		case metadataComplete:
			return ModeOriginal
		case hasAbsolute:
			return ModeAbsolute
		default:
			return ModeRelative
		}
	}

	switch {
	case hasAbsolute:
		return ModeAbsolute
	case metadataComplete:
		return ModeOriginal
	default:
		return ModeRelative
	}
}
