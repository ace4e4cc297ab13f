package annotate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/upstream"
)

func newTestAggregator(trackURL string) *Aggregator {
	cfg := model.DefaultConfig()
	cfg.Endpoints.UCSC = trackURL
	cfg.Retry.MaxAttempts = 0
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 100
	cfg.Cache.Enabled = false

	return New(cfg, upstream.NewClient(cfg, nil))
}

func TestAggregate_AllLayers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		track := r.URL.Query().Get("track")
		fmt.Fprintf(w, `{"track": %q, "itemsReturned": 1}`, track)
	}))
	defer server.Close()

	agg := newTestAggregator(server.URL)
	bundle := agg.Aggregate(context.Background(), &model.GenomicCoordinates{
		Chrom: "17", Start: 43044295, End: 43125364, Assembly: "GRCh38",
	})

	if bundle.Chrom != "chr17" {
		t.Errorf("Expected chromosome normalized to chr17, got %s", bundle.Chrom)
	}
	if len(bundle.Layers) != 4 {
		t.Fatalf("Expected 4 layers, got %d", len(bundle.Layers))
	}
	for i, kind := range model.LayerKinds {
		layer := bundle.Layers[i]
		if layer.Kind != kind {
			t.Errorf("Expected layer %d to be %s, got %s", i, kind, layer.Kind)
		}
		if layer.Status != model.LayerOK {
			t.Errorf("Expected layer %s ok, got %s (%s)", kind, layer.Status, layer.Note)
		}
		if len(layer.Payload) == 0 {
			t.Errorf("Expected raw payload for layer %s", kind)
		}
	}
}

func TestAggregate_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("track") != "phyloP100way" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"track": "phyloP100way"}`)
	}))
	defer server.Close()

	agg := newTestAggregator(server.URL)
	bundle := agg.Aggregate(context.Background(), &model.GenomicCoordinates{
		Chrom: "9", Start: 133256042, End: 133256042,
	})

	for _, layer := range bundle.Layers {
		if layer.Kind == model.LayerConservation {
			if layer.Status != model.LayerOK {
				t.Errorf("Expected the surviving layer to be ok, got %s", layer.Status)
			}
			continue
		}
		if layer.Status != model.LayerAbsent {
			t.Errorf("Expected layer %s absent, got %s", layer.Kind, layer.Status)
		}
		if layer.Note == "" {
			t.Errorf("Expected failure note for layer %s", layer.Kind)
		}
		if len(layer.Payload) != 0 {
			t.Errorf("Expected no synthetic payload for failed layer %s", layer.Kind)
		}
	}
}

func TestAggregate_AllAbsentIsStillABundle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Payload-level error marker with a 200 status
		fmt.Fprint(w, `{"error": "track unavailable"}`)
	}))
	defer server.Close()

	agg := newTestAggregator(server.URL)
	bundle := agg.Aggregate(context.Background(), &model.GenomicCoordinates{
		Chrom: "1", Start: 100, End: 200,
	})

	if len(bundle.Layers) != 4 {
		t.Fatalf("Expected a full bundle shape, got %d layers", len(bundle.Layers))
	}
	for _, layer := range bundle.Layers {
		if layer.Status != model.LayerAbsent {
			t.Errorf("Expected layer %s absent, got %s", layer.Kind, layer.Status)
		}
	}
}

func TestAggregate_RegionClamping(t *testing.T) {
	var gotStart, gotEnd string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("start")
		gotEnd = r.URL.Query().Get("end")
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	agg := newTestAggregator(server.URL)
	bundle := agg.Aggregate(context.Background(), &model.GenomicCoordinates{
		Chrom: "2", Start: 1_000_000, End: 5_000_000,
	})

	if bundle.End != 5_000_000 {
		t.Errorf("Expected window to end at the original end, got %d", bundle.End)
	}
	if span := bundle.End - bundle.Start + 1; span != 1_000_000 {
		t.Errorf("Expected effective span of exactly 1,000,000, got %d", span)
	}
	if gotStart != "4000001" || gotEnd != "5000000" {
		t.Errorf("Expected clamped window in track requests, got start=%s end=%s", gotStart, gotEnd)
	}
}

func TestClampRegion_SmallRegionUntouched(t *testing.T) {
	start, end := ClampRegion(100, 200)
	if start != 100 || end != 200 {
		t.Errorf("Expected small region unchanged, got %d..%d", start, end)
	}
}

func TestNormalizeChrom(t *testing.T) {
	tests := []struct{ in, want string }{
		{"17", "chr17"},
		{"chrX", "chrX"},
		{"X", "chrX"},
	}
	for _, tt := range tests {
		if got := NormalizeChrom(tt.in); got != tt.want {
			t.Errorf("NormalizeChrom(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
