package classify

import (
	"testing"

	"github.com/varscout/varscout/internal/model"
)

func TestClassify_Kinds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.VariantKind
	}{
		{"genomic hgvs", "NC_000017.11:g.43092919G>A", model.KindGenomicHgvs},
		{"protein hgvs routes to genomic path", "NP_009225.1:p.Glu23fs", model.KindGenomicHgvs},
		{"cdna hgvs", "NM_007294.4:c.68_69del", model.KindCdnaHgvs},
		{"gene with space", "BRCA1 c.68_69delAG", model.KindGeneCdna},
		{"gene with colon", "TP53:c.215C>G", model.KindGeneCdna},
		{"rsid", "rs56116432", model.KindRsId},
		{"rsid-like accession falls through", "rs1234abc", model.KindUnrecognized},
		{"free text", "the BRCA1 founder mutation", model.KindUnrecognized},
		{"empty", "", model.KindUnrecognized},
		{"whitespace only", "   ", model.KindUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.raw)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %s, want %s", tt.raw, got.Kind, tt.want)
			}
		})
	}
}

func TestClassify_GeneCdnaFields(t *testing.T) {
	got := Classify("BRCA1 c.68_69delAG")
	if got.Gene != "BRCA1" {
		t.Errorf("Expected gene BRCA1, got %q", got.Gene)
	}
	if got.Change != "c.68_69delAG" {
		t.Errorf("Expected change c.68_69delAG, got %q", got.Change)
	}
}

func TestClassify_NotationPreserved(t *testing.T) {
	raw := "NC_000017.11:g.43092919G>A"
	got := Classify(raw)
	if got.Notation != raw {
		t.Errorf("Expected notation preserved, got %q", got.Notation)
	}
}

func TestClassify_StrictRsIDAnchor(t *testing.T) {
	// Strings starting with "rs" but carrying non-digits must not classify as rsIDs
	for _, raw := range []string{"rs", "rs123x", "rsid", "rs 123"} {
		got := Classify(raw)
		if got.Kind == model.KindRsId {
			t.Errorf("Classify(%q) = rsid, want fall-through", raw)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	inputs := []string{
		"rs56116432", "BRCA1 c.68_69delAG", "NM_007294.4:c.68_69del", "garbage",
	}
	for _, raw := range inputs {
		first := Classify(raw)
		for i := 0; i < 3; i++ {
			if again := Classify(raw); again != first {
				t.Errorf("Classify(%q) not deterministic: %+v vs %+v", raw, first, again)
			}
		}
	}
}
