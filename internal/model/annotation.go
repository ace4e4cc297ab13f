package model

import "encoding/json"

// LayerKind identifies one independent annotation layer
type LayerKind string

const (
	LayerGeneModel            LayerKind = "gene_model"
	LayerConservation         LayerKind = "conservation"
	LayerKnownVariants        LayerKind = "known_variants"
	LayerClinicalSignificance LayerKind = "clinical_significance"
)

// LayerKinds is the fixed bundle order, independent of fetch completion order
var LayerKinds = []LayerKind{
	LayerGeneModel,
	LayerConservation,
	LayerKnownVariants,
	LayerClinicalSignificance,
}

// LayerStatus reports whether a layer fetch produced data
type LayerStatus string

const (
	LayerOK     LayerStatus = "ok"
	LayerAbsent LayerStatus = "absent" // No data: fetch failed or the source returned an error marker
)

// LayerResult is the outcome of one annotation layer fetch.
// Payload is the raw track data from the source; it is never synthesized.
// When Status is absent, Note carries the failure reason.
type LayerResult struct {
	Kind    LayerKind       `json:"kind"`
	Status  LayerStatus     `json:"status"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Note    string          `json:"note,omitempty"`
}

// AnnotationBundle is the merged result of the four layer fetches,
// always in LayerKinds order. Partial bundles are valid responses.
type AnnotationBundle struct {
	Chrom  string        `json:"chrom"` // Prefixed chromosome the layers were queried with (e.g. "chr17")
	Start  int64         `json:"start"` // Effective query window after clamping
	End    int64         `json:"end"`
	Layers []LayerResult `json:"layers"`
}

// Layer returns the result for a kind, or nil if the bundle lacks it
func (b *AnnotationBundle) Layer(kind LayerKind) *LayerResult {
	for i := range b.Layers {
		if b.Layers[i].Kind == kind {
			return &b.Layers[i]
		}
	}
	return nil
}
