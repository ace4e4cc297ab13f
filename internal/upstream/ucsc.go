package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// UCSC wraps the genome-annotation track API. Each annotation layer maps to
// one track; the payload is returned raw and never reshaped.
type UCSC struct {
	client *Client
	base   string
}

// NewUCSC creates a UCSC track service wrapper
func NewUCSC(client *Client, base string) *UCSC {
	return &UCSC{client: client, base: strings.TrimSuffix(base, "/")}
}

// GetTrack fetches track data for a region. chrom must already carry the
// "chr" prefix the track service expects. maxAttempts is the per-layer
// retry budget of the aggregator.
func (u *UCSC) GetTrack(ctx context.Context, genome, track, chrom string, start, end int64, maxAttempts int) (json.RawMessage, error) {
	endpoint := u.base + "/getData/track"
	params := url.Values{
		"genome": {genome},
		"track":  {track},
		"chrom":  {chrom},
		"start":  {fmt.Sprintf("%d", start)},
		"end":    {fmt.Sprintf("%d", end)},
	}

	var payload json.RawMessage
	if err := u.client.GetJSONAttempts(ctx, endpoint, params, maxAttempts, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
