package resolve

import (
	"context"

	"github.com/varscout/varscout/internal/model"
)

// maxTranscriptCandidates bounds the per-gene fallback cost: the canonical
// transcript plus at most two alternates.
const maxTranscriptCandidates = 3

// Transcripts returns the ranked transcript candidates for a human gene
// symbol: the canonical transcript first, the rest in source order. When the
// source flags none canonical, the first returned transcript stands in.
// Fails with not_found when the symbol has no transcripts.
func (r *Resolver) Transcripts(ctx context.Context, gene string) ([]model.TranscriptCandidate, error) {
	rec, err := r.ensembl.LookupSymbol(ctx, gene)
	if err != nil {
		return nil, err
	}

	if len(rec.Transcripts) == 0 {
		return nil, model.NewResolutionError(model.ErrNotFound, "gene %s has no transcripts", gene)
	}

	candidates := make([]model.TranscriptCandidate, 0, len(rec.Transcripts))
	canonicalAt := -1
	for i, t := range rec.Transcripts {
		candidates = append(candidates, model.TranscriptCandidate{
			ID:          t.ID,
			IsCanonical: t.IsCanonical == 1,
			Gene:        gene,
		})
		if canonicalAt < 0 && t.IsCanonical == 1 {
			canonicalAt = i
		}
	}

	if canonicalAt > 0 {
		canonical := candidates[canonicalAt]
		candidates = append(candidates[:canonicalAt], candidates[canonicalAt+1:]...)
		candidates = append([]model.TranscriptCandidate{canonical}, candidates...)
	} else if canonicalAt < 0 {
		// No canonical flag anywhere: the first transcript stands in
		candidates[0].IsCanonical = true
	}

	if len(candidates) > maxTranscriptCandidates {
		candidates = candidates[:maxTranscriptCandidates]
	}

	return candidates, nil
}
