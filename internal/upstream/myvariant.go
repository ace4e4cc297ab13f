package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// MyVariant wraps the MyVariant.info API: the last-resort direct variant
// lookup and the gene-scoped search behind the gene+cDNA heuristic.
type MyVariant struct {
	client *Client
	base   string
}

// NewMyVariant creates a MyVariant service wrapper
func NewMyVariant(client *Client, base string) *MyVariant {
	return &MyVariant{client: client, base: strings.TrimSuffix(base, "/")}
}

// VariantDoc is the subset of a variant document resolution needs
type VariantDoc struct {
	ID    string `json:"_id"`
	Chrom string `json:"chrom"`
	Hg38  *struct {
		Start int64 `json:"start"`
		End   int64 `json:"end"`
	} `json:"hg38"`
	Vcf *struct {
		Ref string `json:"ref"`
		Alt string `json:"alt"`
	} `json:"vcf"`
	DbSNP *struct {
		RsID string `json:"rsid"`
	} `json:"dbsnp"`
}

// GetVariant fetches a variant document by identifier (HGVS id or rsID)
func (m *MyVariant) GetVariant(ctx context.Context, id string) (*VariantDoc, error) {
	endpoint := fmt.Sprintf("%s/variant/%s", m.base, url.PathEscape(id))
	params := url.Values{"assembly": {"hg38"}}

	var doc VariantDoc
	if err := m.client.GetJSON(ctx, endpoint, params, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// QueryHit is one search hit; Raw keeps the full document so callers can
// scan synonym-like fields for literal matches.
type QueryHit struct {
	ID   string `json:"_id"`
	Raw  json.RawMessage
	RsID string
}

type queryResponse struct {
	Hits []json.RawMessage `json:"hits"`
}

// QueryGene searches variant documents scoped to a gene symbol. The hit
// documents carry cDNA notations in annotation fields; the caller decides
// what counts as a match.
func (m *MyVariant) QueryGene(ctx context.Context, gene string, size int) ([]QueryHit, error) {
	endpoint := m.base + "/query"
	params := url.Values{
		"q":        {fmt.Sprintf("dbsnp.gene.symbol:%s", gene)},
		"fields":   {"dbsnp.rsid,snpeff.ann.hgvs_c,clinvar.hgvs"},
		"size":     {fmt.Sprintf("%d", size)},
		"assembly": {"hg38"},
	}

	var resp queryResponse
	if err := m.client.GetJSON(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}

	hits := make([]QueryHit, 0, len(resp.Hits))
	for _, raw := range resp.Hits {
		var probe struct {
			ID    string `json:"_id"`
			DbSNP *struct {
				RsID string `json:"rsid"`
			} `json:"dbsnp"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			continue
		}
		hit := QueryHit{ID: probe.ID, Raw: raw}
		if probe.DbSNP != nil {
			hit.RsID = probe.DbSNP.RsID
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
