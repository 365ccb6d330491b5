package fragment

import "fmt"

// Classification places a fragment relative to the others bucket.
type Classification int

const (
	ClassUnspecified Classification = iota
	ClassBeforeOthers
	ClassAfterOthers
	ClassConflict
)

var classNames = map[Classification]string{
	ClassUnspecified:  "unspecified",
	ClassBeforeOthers: "before-others",
	ClassAfterOthers:  "after-others",
	ClassConflict:     "conflict",
}

func (c Classification) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return "unknown"
}

func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Classification) UnmarshalText(text []byte) error {
	for k, v := range classNames {
		if v == string(text) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown classification %q", text)
}

// OthersNodeName is the display name of the others bucket in a [Graph].
const OthersNodeName = "<others>"

// Graph is the resolved relative ordering graph of one run, after edge and
// classification propagation.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is a fragment that took part in relative ordering.
type GraphNode struct {
	Name     string         `json:"name"`
	Locator  string         `json:"locator,omitempty"`
	Class    Classification `json:"class"`
	Declared bool           `json:"declared"` // fragment carries ordering metadata
	Others   bool           `json:"others,omitempty"`
}

// GraphEdge states that Before is loaded before After.
type GraphEdge struct {
	Before string `json:"before"`
	After  string `json:"after"`
}
