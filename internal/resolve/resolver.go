package resolve

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/upstream"
)

var (
	digitsOnlyRe = regexp.MustCompile(`^[0-9]+$`)

	// Fixed parse pattern for genomic HGVS returned by the recoder:
	// chromosome accession with leading zeros stripped, decimal position,
	// remainder is the allele change.
	recodedHgvsRe = regexp.MustCompile(`^NC_0*([0-9XY]+)\.\d+:g\.(\d+)(.*)$`)

	// Coding changes eligible for the direct synonym search
	changeShapeRe = regexp.MustCompile(`del|ins|dup|fs|>`)
)

// Resolver turns a classified variant into canonical genomic coordinates by
// walking an ordered, per-kind fallback chain over the upstream services.
// Strategies run one at a time; the chain prefers exact allele-level
// coordinates and degrades to gene-level approximation before giving up.
type Resolver struct {
	ensembl   *upstream.Ensembl
	myvariant *upstream.MyVariant
	assembly  string
}

// New creates a resolver over the configured upstream services
func New(cfg *model.Config, client *upstream.Client) *Resolver {
	return &Resolver{
		ensembl:   upstream.NewEnsembl(client, cfg.Endpoints.Ensembl),
		myvariant: upstream.NewMyVariant(client, cfg.Endpoints.MyVariant),
		assembly:  cfg.Assembly.Name,
	}
}

// Resolve maps a parsed variant to coordinates. The error is always a
// *model.ResolutionError: malformed for unrecognized input, not_found for a
// single-strategy miss, all_strategies_exhausted (with per-strategy reasons)
// when a fallback chain runs dry.
func (r *Resolver) Resolve(ctx context.Context, pv model.ParsedVariant) (*model.GenomicCoordinates, error) {
	switch pv.Kind {
	case model.KindRsId:
		return r.resolveRsID(ctx, pv.RsID, model.ProvenanceRsIDDirect)

	case model.KindGenomicHgvs, model.KindCdnaHgvs:
		// A transcript-qualified cDNA notation with no gene context walks
		// the same chain as genomic HGVS.
		return r.resolveHgvs(ctx, pv.Notation)

	case model.KindGeneCdna:
		return r.resolveGeneCdna(ctx, pv.Gene, pv.Change)

	case model.KindUnrecognized:
		return nil, model.NewResolutionError(model.ErrMalformed, "unrecognized variant notation: %s", pv.Reason)

	default:
		return nil, model.NewResolutionError(model.ErrMalformed, "unsupported variant kind %q", pv.Kind)
	}
}

// resolveRsID queries the variation database by identifier and selects the
// mapping whose assembly matches the target build.
func (r *Resolver) resolveRsID(ctx context.Context, id, provenance string) (*model.GenomicCoordinates, error) {
	rec, err := r.ensembl.VariationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, m := range rec.Mappings {
		if m.AssemblyName != r.assembly {
			continue
		}
		return &model.GenomicCoordinates{
			Chrom:      m.SeqRegionName,
			Start:      m.Start,
			End:        m.End,
			Strand:     m.Strand,
			Allele:     m.AlleleString,
			Assembly:   r.assembly,
			Provenance: provenance,
		}, nil
	}

	return nil, model.NewResolutionError(model.ErrNotFound, "%s has no %s mapping", id, r.assembly)
}

// resolveHgvs walks the genomic-HGVS fallback chain: rsID inference, the
// variant recoder, a variation-database lookup, a direct variant lookup,
// and finally approximate gene bounds.
func (r *Resolver) resolveHgvs(ctx context.Context, notation string) (*model.GenomicCoordinates, error) {
	hasColon := strings.Contains(notation, ":")

	strategies := []strategy{
		{
			// Bare numbers are usually rsIDs typed without the prefix
			name: "rsid_inference",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				if hasColon || !digitsOnlyRe.MatchString(notation) {
					return nil, errNotApplicable
				}
				return r.resolveRsID(ctx, "rs"+notation, model.ProvenanceRsIDInferred)
			},
		},
		{
			name: "recoder",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				if !hasColon {
					return nil, errNotApplicable
				}
				return r.resolveViaRecoder(ctx, notation)
			},
		},
		{
			name: "variation_db",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				if hasColon {
					return nil, errNotApplicable
				}
				return r.resolveRsID(ctx, notation, model.ProvenanceVariationDB)
			},
		},
		{
			name: "direct_lookup",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				return r.resolveViaDirectLookup(ctx, notation)
			},
		},
		{
			// An approximate region beats no answer: the accession before
			// the colon may be a gene symbol.
			name: "gene_bounds",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				if !hasColon {
					return nil, errNotApplicable
				}
				gene := notation[:strings.Index(notation, ":")]
				return r.geneCoordinates(ctx, gene)
			},
		},
	}

	coords, attempts := runStrategies(ctx, strategies)
	if coords != nil {
		return coords, nil
	}

	return nil, &model.ResolutionError{
		Kind:     model.ErrAllStrategiesExhausted,
		Detail:   fmt.Sprintf("no strategy resolved %q", notation),
		Attempts: attempts,
	}
}

// resolveViaRecoder submits the notation to the variant recoder and parses
// the first genomic HGVS of the returned allele records.
func (r *Resolver) resolveViaRecoder(ctx context.Context, notation string) (*model.GenomicCoordinates, error) {
	alleles, err := r.ensembl.RecodeVariant(ctx, notation)
	if err != nil {
		return nil, err
	}

	for _, a := range alleles {
		for _, hgvsg := range a.HGVSg {
			coords, ok := parseRecodedHgvs(hgvsg)
			if ok {
				coords.Assembly = r.assembly
				coords.Provenance = model.ProvenanceRecoder
				return coords, nil
			}
		}
	}

	return nil, fmt.Errorf("recoder records carry no parseable genomic HGVS for %q", notation)
}

// parseRecodedHgvs extracts coordinates from a recoder genomic HGVS string
func parseRecodedHgvs(hgvsg string) (*model.GenomicCoordinates, bool) {
	m := recodedHgvsRe.FindStringSubmatch(hgvsg)
	if m == nil {
		return nil, false
	}

	var pos int64
	if _, err := fmt.Sscanf(m[2], "%d", &pos); err != nil {
		return nil, false
	}

	return &model.GenomicCoordinates{
		Chrom:  m[1],
		Start:  pos,
		End:    pos,
		Allele: m[3],
	}, true
}

// resolveViaDirectLookup is the last-resort exact strategy
func (r *Resolver) resolveViaDirectLookup(ctx context.Context, notation string) (*model.GenomicCoordinates, error) {
	doc, err := r.myvariant.GetVariant(ctx, notation)
	if err != nil {
		return nil, err
	}

	if doc.Chrom == "" || doc.Hg38 == nil {
		return nil, fmt.Errorf("variant document for %q lacks %s coordinates", notation, r.assembly)
	}

	coords := &model.GenomicCoordinates{
		Chrom:      doc.Chrom,
		Start:      doc.Hg38.Start,
		End:        doc.Hg38.End,
		Assembly:   r.assembly,
		Provenance: model.ProvenanceDirectLookup,
	}
	if doc.Vcf != nil && doc.Vcf.Ref != "" {
		coords.Allele = doc.Vcf.Ref + "/" + doc.Vcf.Alt
	}
	return coords, nil
}

// geneCoordinates resolves a gene symbol to its genomic bounds. The result
// is explicitly approximate: it locates the gene, not the variant.
func (r *Resolver) geneCoordinates(ctx context.Context, gene string) (*model.GenomicCoordinates, error) {
	rec, err := r.ensembl.LookupSymbol(ctx, gene)
	if err != nil {
		return nil, err
	}

	return &model.GenomicCoordinates{
		Chrom:       rec.SeqRegionName,
		Start:       rec.Start,
		End:         rec.End,
		Strand:      rec.Strand,
		Assembly:    r.assembly,
		Provenance:  model.ProvenanceGeneBounds,
		Approximate: true,
	}, nil
}

// resolveGeneCdna handles the gene-symbol + bare cDNA change form: a
// non-fatal synonym search, then the transcript path, then gene bounds.
func (r *Resolver) resolveGeneCdna(ctx context.Context, gene, change string) (*model.GenomicCoordinates, error) {
	strategies := []strategy{
		{
			// Known false-positive risk: the search matches the literal
			// change string anywhere in the hit document, so an unrelated
			// variant carrying the same substring can win.
			name: "synonym_search",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				if !changeShapeRe.MatchString(change) {
					return nil, errNotApplicable
				}
				return r.searchGeneChange(ctx, gene, change)
			},
		},
		{
			name: "transcript_path",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				return r.resolveViaTranscripts(ctx, gene, change)
			},
		},
		{
			// Always attempted before total failure: an approximate gene
			// region is more useful to the caller than no answer.
			name: "gene_bounds",
			run: func(ctx context.Context) (*model.GenomicCoordinates, error) {
				return r.geneCoordinates(ctx, gene)
			},
		},
	}

	coords, attempts := runStrategies(ctx, strategies)
	if coords != nil {
		return coords, nil
	}

	return nil, &model.ResolutionError{
		Kind:     model.ErrAllStrategiesExhausted,
		Detail:   fmt.Sprintf("no strategy resolved %s %s", gene, change),
		Attempts: attempts,
	}
}

// searchGeneChange scans gene-scoped variant documents for one whose
// annotations carry the literal change string, then resolves its rsID
// through the HGVS path.
func (r *Resolver) searchGeneChange(ctx context.Context, gene, change string) (*model.GenomicCoordinates, error) {
	hits, err := r.myvariant.QueryGene(ctx, gene, 50)
	if err != nil {
		return nil, err
	}

	for _, hit := range hits {
		if hit.RsID == "" || !strings.Contains(string(hit.Raw), change) {
			continue
		}
		return r.resolveHgvs(ctx, hit.RsID)
	}

	return nil, fmt.Errorf("no %s variant document mentions %q", gene, change)
}

// resolveViaTranscripts tries each ranked transcript candidate through the
// recoder, preferring genomic HGVS, then coding, protein, SPDI, and rsID
// representations of the first usable allele record.
func (r *Resolver) resolveViaTranscripts(ctx context.Context, gene, change string) (*model.GenomicCoordinates, error) {
	candidates, err := r.Transcripts(ctx, gene)
	if err != nil {
		return nil, err
	}

	var reasons []string
	for _, cand := range candidates {
		notation, err := r.recodeTranscript(ctx, cand.ID+":"+change)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", cand.ID, err))
			continue
		}

		coords, err := r.resolveHgvs(ctx, notation)
		if err != nil {
			reasons = append(reasons, fmt.Sprintf("%s: %v", cand.ID, err))
			continue
		}

		coords.Transcript = cand.ID
		return coords, nil
	}

	return nil, fmt.Errorf("all transcript candidates failed (%s)", strings.Join(reasons, "; "))
}

// recodeTranscript submits transcript:change to the recoder and returns the
// highest-priority representation present.
func (r *Resolver) recodeTranscript(ctx context.Context, notation string) (string, error) {
	alleles, err := r.ensembl.RecodeVariant(ctx, notation)
	if err != nil {
		return "", err
	}

	for _, a := range alleles {
		for _, field := range [][]string{a.HGVSg, a.HGVSc, a.HGVSp, a.SPDI, a.ID} {
			if len(field) > 0 && field[0] != "" {
				return field[0], nil
			}
		}
	}

	return "", fmt.Errorf("recoder returned no usable representation for %q", notation)
}
