package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Ensembl wraps the three Ensembl REST endpoints varscout depends on:
// gene-symbol lookup (with transcript expansion), the variant recoder,
// and the variation database.
type Ensembl struct {
	client *Client
	base   string
}

// NewEnsembl creates an Ensembl service wrapper
func NewEnsembl(client *Client, base string) *Ensembl {
	return &Ensembl{client: client, base: strings.TrimSuffix(base, "/")}
}

// GeneRecord is the gene-symbol lookup response
type GeneRecord struct {
	ID                  string             `json:"id"`
	DisplayName         string             `json:"display_name"`
	SeqRegionName       string             `json:"seq_region_name"`
	Start               int64              `json:"start"`
	End                 int64              `json:"end"`
	Strand              int8               `json:"strand"`
	AssemblyName        string             `json:"assembly_name"`
	CanonicalTranscript string             `json:"canonical_transcript"`
	Transcripts         []TranscriptRecord `json:"Transcript"`
}

// TranscriptRecord is one transcript in an expanded gene lookup
type TranscriptRecord struct {
	ID          string `json:"id"`
	IsCanonical int    `json:"is_canonical"`
}

// LookupSymbol fetches gene coordinates and transcripts for a human gene symbol
func (e *Ensembl) LookupSymbol(ctx context.Context, gene string) (*GeneRecord, error) {
	endpoint := fmt.Sprintf("%s/lookup/symbol/homo_sapiens/%s", e.base, url.PathEscape(gene))
	params := url.Values{"expand": {"1"}}

	var rec GeneRecord
	if err := e.client.GetJSON(ctx, endpoint, params, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// VariationRecord is a variation-database entry with its assembly mappings
type VariationRecord struct {
	Name     string             `json:"name"`
	Mappings []VariationMapping `json:"mappings"`
	Synonyms []string           `json:"synonyms"`
}

// VariationMapping is one assembly-tagged coordinate mapping
type VariationMapping struct {
	AssemblyName  string `json:"assembly_name"`
	SeqRegionName string `json:"seq_region_name"`
	Start         int64  `json:"start"`
	End           int64  `json:"end"`
	Strand        int8   `json:"strand"`
	AlleleString  string `json:"allele_string"`
}

// VariationByID looks up a variation-database entry by identifier
// (an rsID or any accepted variant name)
func (e *Ensembl) VariationByID(ctx context.Context, id string) (*VariationRecord, error) {
	endpoint := fmt.Sprintf("%s/variation/human/%s", e.base, url.PathEscape(id))

	var rec VariationRecord
	if err := e.client.GetJSON(ctx, endpoint, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecoderAllele is the per-allele record of a variant-recoder response.
// Every field is optional; resolution prefers them in declaration order.
type RecoderAllele struct {
	HGVSg []string `json:"hgvsg"`
	HGVSc []string `json:"hgvsc"`
	HGVSp []string `json:"hgvsp"`
	SPDI  []string `json:"spdi"`
	ID    []string `json:"id"` // rsIDs
}

// RecodeVariant submits a notation to the variant recoder and returns the
// per-allele records in response order. The response shape is a list of
// objects keyed by allele, with occasional non-allele keys (warnings) that
// are skipped.
func (e *Ensembl) RecodeVariant(ctx context.Context, notation string) ([]RecoderAllele, error) {
	endpoint := fmt.Sprintf("%s/variant_recoder/human/%s", e.base, url.PathEscape(notation))

	var raw []map[string]json.RawMessage
	if err := e.client.GetJSON(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}

	var alleles []RecoderAllele
	for _, entry := range raw {
		for key, val := range entry {
			if key == "warnings" || key == "input" {
				continue
			}
			var allele RecoderAllele
			if err := json.Unmarshal(val, &allele); err != nil {
				continue
			}
			alleles = append(alleles, allele)
		}
	}

	if len(alleles) == 0 {
		return nil, fmt.Errorf("recoder returned no allele records for %q", notation)
	}
	return alleles, nil
}
