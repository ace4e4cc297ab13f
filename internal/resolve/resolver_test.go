package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/upstream"
)

// callRecorder tracks which upstream paths were hit, in order
type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (c *callRecorder) record(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, path)
}

func (c *callRecorder) indexOf(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, call := range c.calls {
		if strings.HasPrefix(call, prefix) {
			return i
		}
	}
	return -1
}

func newTestResolver(ensemblURL, myvariantURL string) *Resolver {
	cfg := model.DefaultConfig()
	cfg.Endpoints.Ensembl = ensemblURL
	cfg.Endpoints.MyVariant = myvariantURL
	cfg.Retry.MaxAttempts = 0
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 100
	cfg.Cache.Enabled = false

	return New(cfg, upstream.NewClient(cfg, nil))
}

func TestResolve_RsIDDirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/variation/human/rs56116432") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"name": "rs56116432",
			"mappings": [
				{"assembly_name": "GRCh37", "seq_region_name": "9", "start": 136131415, "end": 136131415, "strand": 1, "allele_string": "C/T"},
				{"assembly_name": "GRCh38", "seq_region_name": "9", "start": 133256042, "end": 133256042, "strand": 1, "allele_string": "C/T"}
			]
		}`)
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL, server.URL)
	coords, err := resolver.Resolve(context.Background(), model.ParsedVariant{Kind: model.KindRsId, RsID: "rs56116432"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if coords.Provenance != model.ProvenanceRsIDDirect {
		t.Errorf("Expected provenance rsid_direct, got %s", coords.Provenance)
	}
	if coords.Chrom != "9" || coords.Start != 133256042 || coords.End != 133256042 {
		t.Errorf("Expected GRCh38 mapping coordinates, got %+v", coords)
	}
	if coords.Allele == "" {
		t.Error("Expected non-empty allele string")
	}
	if coords.Approximate {
		t.Error("Expected exact coordinates")
	}
}

func TestResolve_RsIDNoMatchingAssembly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "rs1",
			"mappings": [
				{"assembly_name": "GRCh37", "seq_region_name": "1", "start": 100, "end": 100, "strand": 1, "allele_string": "A/G"}
			]
		}`)
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL, server.URL)
	_, err := resolver.Resolve(context.Background(), model.ParsedVariant{Kind: model.KindRsId, RsID: "rs1"})
	if err == nil {
		t.Fatal("Expected not_found without a GRCh38 mapping")
	}

	var resErr *model.ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != model.ErrNotFound {
		t.Errorf("Expected not_found resolution error, got %v", err)
	}
}

func TestResolve_Unrecognized(t *testing.T) {
	resolver := newTestResolver("http://unused.invalid", "http://unused.invalid")
	_, err := resolver.Resolve(context.Background(), model.ParsedVariant{Kind: model.KindUnrecognized, Reason: "free text"})
	if err == nil {
		t.Fatal("Expected malformed error")
	}

	var resErr *model.ResolutionError
	if !errors.As(err, &resErr) || resErr.Kind != model.ErrMalformed {
		t.Errorf("Expected malformed resolution error, got %v", err)
	}
}

func TestResolve_HgvsRecoderStrategy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/variant_recoder/human/") {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[
			{"A": {"hgvsg": ["NC_000017.11:g.43092919G>A"], "hgvsc": ["NM_007294.4:c.68G>T"], "id": ["rs80357713"]}}
		]`)
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL, server.URL)
	coords, err := resolver.Resolve(context.Background(), model.ParsedVariant{
		Kind:     model.KindGenomicHgvs,
		Notation: "NC_000017.11:g.43092919G>A",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if coords.Provenance != model.ProvenanceRecoder {
		t.Errorf("Expected provenance recoder, got %s", coords.Provenance)
	}
	if coords.Chrom != "17" {
		t.Errorf("Expected leading zeros stripped from accession, got chrom %q", coords.Chrom)
	}
	if coords.Start != 43092919 || coords.End != 43092919 {
		t.Errorf("Expected start == end == position, got %d..%d", coords.Start, coords.End)
	}
	if coords.Allele != "G>A" {
		t.Errorf("Expected allele change remainder, got %q", coords.Allele)
	}
}

func TestResolve_HgvsRsIDInference(t *testing.T) {
	var askedID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/variation/human/") {
			askedID = strings.TrimPrefix(r.URL.Path, "/variation/human/")
			fmt.Fprint(w, `{
				"name": "rs56116432",
				"mappings": [{"assembly_name": "GRCh38", "seq_region_name": "9", "start": 133256042, "end": 133256042, "strand": 1, "allele_string": "C/T"}]
			}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL, server.URL)
	coords, err := resolver.Resolve(context.Background(), model.ParsedVariant{
		Kind:     model.KindGenomicHgvs,
		Notation: "56116432",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if askedID != "rs56116432" {
		t.Errorf("Expected rs prefix prepended before lookup, asked for %q", askedID)
	}
	if coords.Provenance != model.ProvenanceRsIDInferred {
		t.Errorf("Expected provenance rsid_inferred, got %s", coords.Provenance)
	}
}

func TestResolve_HgvsFallbackOrdering(t *testing.T) {
	recorder := &callRecorder{}

	ensembl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder.record(r.URL.Path)
		http.NotFound(w, r)
	}))
	defer ensembl.Close()

	myvariant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder.record(r.URL.Path)
		http.NotFound(w, r)
	}))
	defer myvariant.Close()

	resolver := newTestResolver(ensembl.URL, myvariant.URL)
	_, err := resolver.Resolve(context.Background(), model.ParsedVariant{
		Kind:     model.KindGenomicHgvs,
		Notation: "NC_000001.11:g.100A>T",
	})
	if err == nil {
		t.Fatal("Expected resolution to fail with every upstream down")
	}

	recoderAt := recorder.indexOf("/variant_recoder/")
	directAt := recorder.indexOf("/variant/")
	geneAt := recorder.indexOf("/lookup/symbol/")

	if recoderAt < 0 || directAt < 0 || geneAt < 0 {
		t.Fatalf("Expected recoder, direct lookup and gene bounds to all be attempted, calls: %v", recorder.calls)
	}
	if recoderAt > directAt {
		t.Errorf("Expected recoder before direct lookup, calls: %v", recorder.calls)
	}
	if directAt > geneAt {
		t.Errorf("Expected direct lookup before gene bounds, calls: %v", recorder.calls)
	}

	var resErr *model.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Expected resolution error, got %v", err)
	}
	if resErr.Kind != model.ErrAllStrategiesExhausted {
		t.Errorf("Expected all_strategies_exhausted, got %s", resErr.Kind)
	}
	if len(resErr.Attempts) != 3 {
		t.Errorf("Expected 3 recorded attempts, got %+v", resErr.Attempts)
	}
}

func TestResolve_GeneCdnaDegradesToGeneBounds(t *testing.T) {
	ensembl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/lookup/symbol/homo_sapiens/BRCA1"):
			fmt.Fprint(w, `{
				"id": "ENSG00000012048", "display_name": "BRCA1",
				"seq_region_name": "17", "start": 43044295, "end": 43125364,
				"strand": -1, "assembly_name": "GRCh38",
				"Transcript": [
					{"id": "ENST00000471181", "is_canonical": 0},
					{"id": "ENST00000357654", "is_canonical": 1}
				]
			}`)
		default:
			// Recoder and everything else fail for every transcript
			http.NotFound(w, r)
		}
	}))
	defer ensembl.Close()

	myvariant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits": []}`)
	}))
	defer myvariant.Close()

	resolver := newTestResolver(ensembl.URL, myvariant.URL)
	coords, err := resolver.Resolve(context.Background(), model.ParsedVariant{
		Kind:   model.KindGeneCdna,
		Gene:   "BRCA1",
		Change: "c.68_69delAG",
	})
	if err != nil {
		t.Fatalf("Expected graceful degradation to gene bounds, got %v", err)
	}

	if !coords.Approximate {
		t.Error("Expected approximate flag on gene-level coordinates")
	}
	if coords.Provenance != model.ProvenanceGeneBounds {
		t.Errorf("Expected provenance gene_bounds, got %s", coords.Provenance)
	}
	if coords.Chrom != "17" || coords.Start != 43044295 || coords.End != 43125364 {
		t.Errorf("Unexpected gene coordinates: %+v", coords)
	}
}

func TestResolve_GeneCdnaTranscriptPath(t *testing.T) {
	ensembl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/lookup/symbol/homo_sapiens/BRCA1"):
			fmt.Fprint(w, `{
				"id": "ENSG00000012048", "display_name": "BRCA1",
				"seq_region_name": "17", "start": 43044295, "end": 43125364,
				"strand": -1, "assembly_name": "GRCh38",
				"Transcript": [{"id": "ENST00000357654", "is_canonical": 1}]
			}`)
		case strings.HasPrefix(r.URL.Path, "/variant_recoder/human/ENST00000357654:c.68_69delAG"):
			fmt.Fprint(w, `[{"del": {"hgvsg": ["NC_000017.11:g.43124027_43124028del"], "id": ["rs386833395"]}}]`)
		case strings.HasPrefix(r.URL.Path, "/variant_recoder/human/NC_000017.11:g.43124027_43124028del"):
			fmt.Fprint(w, `[{"del": {"hgvsg": ["NC_000017.11:g.43124027_43124028del"]}}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ensembl.Close()

	myvariant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"hits": []}`)
	}))
	defer myvariant.Close()

	resolver := newTestResolver(ensembl.URL, myvariant.URL)
	coords, err := resolver.Resolve(context.Background(), model.ParsedVariant{
		Kind:   model.KindGeneCdna,
		Gene:   "BRCA1",
		Change: "c.68_69delAG",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if coords.Transcript != "ENST00000357654" {
		t.Errorf("Expected result tagged with the producing transcript, got %q", coords.Transcript)
	}
	if coords.Chrom != "17" || coords.Start != 43124027 {
		t.Errorf("Unexpected coordinates: %+v", coords)
	}
	if coords.Approximate {
		t.Error("Expected exact transcript-derived coordinates")
	}
}

func TestResolve_GeneCdnaSynonymSearch(t *testing.T) {
	ensembl := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/variation/human/rs80357713") {
			fmt.Fprint(w, `{
				"name": "rs80357713",
				"mappings": [{"assembly_name": "GRCh38", "seq_region_name": "17", "start": 43092919, "end": 43092919, "strand": 1, "allele_string": "G/A"}]
			}`)
			return
		}
		http.NotFound(w, r)
	}))
	defer ensembl.Close()

	myvariant := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"hits": [
			{"_id": "chr17:g.43092919G>A", "dbsnp": {"rsid": "rs80357713"}, "snpeff": {"ann": [{"hgvs_c": "c.68G>T"}]}}
		]}`)
	}))
	defer myvariant.Close()

	resolver := newTestResolver(ensembl.URL, myvariant.URL)
	coords, err := resolver.Resolve(context.Background(), model.ParsedVariant{
		Kind:   model.KindGeneCdna,
		Gene:   "BRCA1",
		Change: "c.68G>T",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if coords.Chrom != "17" || coords.Start != 43092919 {
		t.Errorf("Expected coordinates from the matched rsID, got %+v", coords)
	}
}
