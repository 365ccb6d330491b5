package cache

// Keyer derives cache keys.
type Keyer interface {
	// OrderKey identifies the ordering result of one manifest.
	OrderKey(manifestHash string, opts OrderKeyOpts) string
	// ArtifactKey identifies an artifact rendered from one ordering result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// OrderKeyOpts holds the settings that change an ordering result without
// changing the manifest bytes.
type OrderKeyOpts struct {
	Format string `json:"format"`
	Compat string `json:"compat,omitempty"`
}

// ArtifactKeyOpts identifies the kind of rendered artifact.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer builds keys of the form kind:sha256(parts).
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) OrderKey(manifestHash string, opts OrderKeyOpts) string {
	return hashKey("order", manifestHash, opts)
}

func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}
