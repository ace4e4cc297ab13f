package classify

import (
	"regexp"
	"strings"

	"github.com/varscout/varscout/internal/model"
)

// Pattern order matters: the gene+cDNA form must be recognized before a loose
// accession pattern could misfire on it, and the rsID pattern is anchored on
// both ends so accession-style strings that merely start with "rs" fall through.
var (
	// Accession with version, colon, sequence-type designator, change
	// (e.g. NC_000017.11:g.43092919G>A, NM_007294.4:c.68_69del)
	accessionHgvsRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*\.\d+):([gcpnmr])\.(.+)$`)

	// Bare gene symbol, whitespace or colon, coding-DNA change
	// (e.g. "BRCA1 c.68_69delAG", "TP53:c.215C>G")
	geneCdnaRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*)[\s:]+(c\.\S.*)$`)

	rsIDRe = regexp.MustCompile(`^rs[0-9]+$`)
)

// Classify maps a raw identifier to its tagged variant form. It is total and
// deterministic: every string maps to exactly one kind, with unrecognized as
// the catch-all. No I/O, never fails.
func Classify(raw string) model.ParsedVariant {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		return model.ParsedVariant{
			Kind:   model.KindUnrecognized,
			Reason: "empty input",
		}
	}

	if m := accessionHgvsRe.FindStringSubmatch(trimmed); m != nil {
		if m[2] == "c" {
			return model.ParsedVariant{
				Kind:     model.KindCdnaHgvs,
				Notation: trimmed,
			}
		}
		return model.ParsedVariant{
			Kind:     model.KindGenomicHgvs,
			Notation: trimmed,
		}
	}

	if m := geneCdnaRe.FindStringSubmatch(trimmed); m != nil {
		return model.ParsedVariant{
			Kind:   model.KindGeneCdna,
			Gene:   m[1],
			Change: strings.TrimSpace(m[2]),
		}
	}

	if rsIDRe.MatchString(trimmed) {
		return model.ParsedVariant{
			Kind: model.KindRsId,
			RsID: trimmed,
		}
	}

	return model.ParsedVariant{
		Kind:   model.KindUnrecognized,
		Reason: "input matches no known variant notation",
	}
}
