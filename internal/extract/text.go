package extract

import (
	"regexp"
	"strings"

	"github.com/varscout/varscout/internal/classify"
	"github.com/varscout/varscout/internal/model"
	"golang.org/x/net/html"
)

// VisibleText strips an HTML document down to its visible text,
// skipping script, style, noscript and iframe subtrees
func VisibleText(htmlContent string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return buf.String(), nil
}

// Candidate patterns for the regex pre-scan. The scan deliberately
// over-matches; every hit is re-checked by the classifier.
var (
	rsIDScanRe       = regexp.MustCompile(`\brs[0-9]+\b`)
	hgvsScanRe       = regexp.MustCompile(`\b[A-Z][A-Za-z0-9_]*\.\d+:[gcpnmr]\.[^\s,;)]+`)
	geneChangeScanRe = regexp.MustCompile(`\b[A-Z][A-Z0-9-]{1,14}[ :]c\.[^\s,;)]+`)
)

// ScanText finds variant notation candidates in plain text without an LLM.
// Results are deduplicated in first-seen order.
func ScanText(text string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(candidate string) {
		candidate = strings.TrimRight(candidate, ".")
		if candidate == "" || seen[candidate] {
			return
		}
		if classify.Classify(candidate).Kind == model.KindUnrecognized {
			return
		}
		seen[candidate] = true
		out = append(out, candidate)
	}

	for _, m := range rsIDScanRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range hgvsScanRe.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range geneChangeScanRe.FindAllString(text, -1) {
		add(m)
	}

	return out
}
