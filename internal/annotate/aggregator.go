package annotate

import (
	"context"
	"strings"
	"sync"

	"github.com/varscout/varscout/internal/model"
	"github.com/varscout/varscout/internal/upstream"
)

// maxRegionSpan is the widest window the track services accept per request.
// Wider regions are clamped toward the end coordinate.
const maxRegionSpan = 1_000_000

// layerTracks maps each annotation layer to its track
var layerTracks = map[model.LayerKind]string{
	model.LayerGeneModel:            "knownGene",
	model.LayerConservation:         "phyloP100way",
	model.LayerKnownVariants:        "snp151",
	model.LayerClinicalSignificance: "clinvarMain",
}

// Aggregator fetches the four annotation layers for a resolved region.
// Aggregate never fails as a whole: each layer fails independently and is
// recorded as absent without disturbing the others.
type Aggregator struct {
	ucsc        *upstream.UCSC
	genome      string
	maxAttempts int
}

// New creates an aggregator over the configured track service
func New(cfg *model.Config, client *upstream.Client) *Aggregator {
	return &Aggregator{
		ucsc:        upstream.NewUCSC(client, cfg.Endpoints.UCSC),
		genome:      cfg.Assembly.UCSCGenome,
		maxAttempts: cfg.Retry.MaxAttempts,
	}
}

// Aggregate issues the four layer fetches concurrently and assembles the
// bundle once all have settled. Each goroutine writes only its own slot, so
// no locking is needed; bundle order is fixed by layer kind regardless of
// completion order.
func (a *Aggregator) Aggregate(ctx context.Context, coords *model.GenomicCoordinates) *model.AnnotationBundle {
	chrom := NormalizeChrom(coords.Chrom)
	start, end := ClampRegion(coords.Start, coords.End)

	results := make([]model.LayerResult, len(model.LayerKinds))
	var wg sync.WaitGroup

	for i, kind := range model.LayerKinds {
		wg.Add(1)
		go func(idx int, kind model.LayerKind) {
			defer wg.Done()

			payload, err := a.ucsc.GetTrack(ctx, a.genome, layerTracks[kind], chrom, start, end, a.maxAttempts)
			if err != nil {
				results[idx] = model.LayerResult{
					Kind:   kind,
					Status: model.LayerAbsent,
					Note:   err.Error(),
				}
				return
			}

			results[idx] = model.LayerResult{
				Kind:    kind,
				Status:  model.LayerOK,
				Payload: payload,
			}
		}(i, kind)
	}

	wg.Wait()

	return &model.AnnotationBundle{
		Chrom:  chrom,
		Start:  start,
		End:    end,
		Layers: results,
	}
}

// NormalizeChrom converts a bare chromosome name to the prefixed form the
// track services expect ("17" -> "chr17")
func NormalizeChrom(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom
	}
	return "chr" + chrom
}

// ClampRegion bounds the query window to maxRegionSpan, shifting the start
// toward the end coordinate. This is a track-service limit, not a statement
// about the resolved coordinates.
func ClampRegion(start, end int64) (int64, int64) {
	if end-start+1 > maxRegionSpan {
		start = end - maxRegionSpan + 1
	}
	return start, end
}
