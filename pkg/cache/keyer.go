package cache

import "fmt"

// Keyer derives cache keys.
type Keyer interface {
	// SourceKey identifies a tree fetched from an external source.
	SourceKey(kind, location string) string
	// LayoutKey identifies a layout of the tree with the given content hash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a layout.
type LayoutKeyOpts struct {
	Width          float64 `json:"w"`
	Height         float64 `json:"h"`
	Zoom           float64 `json:"z"`
	Overlap        float64 `json:"overlap"`
	ArcSpan        float64 `json:"arc"`
	SizeGrowthRate float64 `json:"growth"`
	Orientation    float64 `json:"orient"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	StyleHash string  `json:"style,omitempty"`
	Bundling  float64 `json:"bundling"`
	Detailed  bool    `json:"detailed,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SourceKey(kind, location string) string {
	return fmt.Sprintf("source:%s:%s", kind, Hash([]byte(location)))
}

func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
