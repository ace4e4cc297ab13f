package model

// VariantKind classifies the notation form of a raw variant identifier
type VariantKind string

const (
	KindGenomicHgvs  VariantKind = "genomic_hgvs" // Accession-qualified g./p. HGVS (e.g. NC_000017.11:g.43092919G>A)
	KindCdnaHgvs     VariantKind = "cdna_hgvs"    // Transcript-qualified c. HGVS (e.g. NM_007294.4:c.68_69del)
	KindGeneCdna     VariantKind = "gene_cdna"    // Gene symbol + bare cDNA change (e.g. "BRCA1 c.68_69delAG")
	KindRsId         VariantKind = "rsid"         // dbSNP-style identifier (rs + digits)
	KindUnrecognized VariantKind = "unrecognized" // Catch-all; Reason explains why
)

// ParsedVariant is the tagged classification of a raw input string.
// Exactly one shape is populated depending on Kind:
// Notation for HGVS kinds, Gene+Change for gene_cdna, RsID for rsid,
// Reason for unrecognized.
type ParsedVariant struct {
	Kind     VariantKind `json:"kind"`
	Notation string      `json:"notation,omitempty"`
	Gene     string      `json:"gene,omitempty"`
	Change   string      `json:"change,omitempty"`
	RsID     string      `json:"rsid,omitempty"`
	Reason   string      `json:"reason,omitempty"`
}

// TranscriptCandidate is one transcript of a gene, ranked for fallback use
type TranscriptCandidate struct {
	ID          string `json:"id"`           // Transcript accession (e.g. ENST00000357654)
	IsCanonical bool   `json:"is_canonical"` // Flagged canonical by the gene-model source
	Gene        string `json:"gene"`         // Source gene symbol
}

// GenomicCoordinates is the canonical resolved location of a variant
type GenomicCoordinates struct {
	Chrom      string `json:"chrom"`                // Chromosome/contig name without prefix (e.g. "17")
	Start      int64  `json:"start"`                // 1-based inclusive
	End        int64  `json:"end"`                  // 1-based inclusive
	Strand     int8   `json:"strand"`               // +1, -1, or 0 when unknown
	Allele     string `json:"allele,omitempty"`     // Allele string when the source provides one
	Assembly   string `json:"assembly"`             // Reference build label (e.g. GRCh38)
	Provenance string `json:"provenance"`           // Which resolution strategy produced this
	Transcript string `json:"transcript,omitempty"` // Transcript that mediated resolution, if any
	Approximate bool  `json:"approximate"`          // True when derived from gene bounds, not the exact position
}

// Provenance labels for GenomicCoordinates
const (
	ProvenanceRsIDDirect   = "rsid_direct"   // Variation database lookup by rsID
	ProvenanceRsIDInferred = "rsid_inferred" // Bare number reinterpreted as an rsID
	ProvenanceRecoder      = "recoder"       // Variant-recoding service
	ProvenanceVariationDB  = "variation_db"  // Variation database lookup by raw notation
	ProvenanceDirectLookup = "direct_lookup" // Last-resort direct variant lookup
	ProvenanceGeneBounds   = "gene_bounds"   // Gene-level region, approximate
)
