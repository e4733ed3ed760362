package align

import (
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/instruction"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
)

// Alignment records how one align directive was resolved against the
// discovered headers.
type Alignment struct {
	// Source is the directive's source term.
	Source string `json:"source"`
	// Target is the directive's target term.
	Target string `json:"target"`
	// MatchedSource is the header that Source matched, if any.
	MatchedSource string `json:"matched_source,omitempty"`
	// MatchedTarget is the header that Target matched, if any.
	MatchedTarget string `json:"matched_target,omitempty"`
	// Resolved reports whether both terms matched a header.
	Resolved bool `json:"resolved"`
}

// HeaderMap maps every discovered header label to its canonical label.
// Every canonical label maps to itself, so applying the map twice is the
// same as applying it once.
type HeaderMap struct {
	labels []string
	canon  map[string]string
}

// Discover returns the distinct header labels of blocks in first-seen order.
func Discover(blocks []models.NormalizedBlock) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, b := range blocks {
		for _, h := range b.Headers {
			if !seen[h] {
				seen[h] = true
				labels = append(labels, h)
			}
		}
	}
	return labels
}

// NewHeaderMap returns the identity map over labels.
func NewHeaderMap(labels []string) HeaderMap {
	m := HeaderMap{
		labels: append([]string(nil), labels...),
		canon:  make(map[string]string, len(labels)),
	}
	for _, l := range labels {
		m.canon[l] = l
	}
	return m
}

// Build resolves each align pair against the headers of blocks and folds the
// resolved pairs, in order, into a HeaderMap. A later pair wins over an
// earlier one for the same source.
func Build(blocks []models.NormalizedBlock, pairs []instruction.AlignPair, cutoff float64) (HeaderMap, []Alignment) {
	m := NewHeaderMap(Discover(blocks))
	alignments := make([]Alignment, 0, len(pairs))

	for _, p := range pairs {
		a := Alignment{Source: p.Source, Target: p.Target}
		src, srcOK := CloseMatch(p.Source, m.labels, cutoff)
		tgt, tgtOK := CloseMatch(p.Target, m.labels, cutoff)
		if srcOK {
			a.MatchedSource = src
		}
		if tgtOK {
			a.MatchedTarget = tgt
		}
		if srcOK && tgtOK {
			a.Resolved = true
			m = m.With(src, tgt)
		}
		alignments = append(alignments, a)
	}

	return m, alignments
}

// With returns a copy of m where source, and every label currently resolving
// to source, resolves to the canonical label of target. If target currently
// resolves to source the cycle is broken in favour of target. Aligning a
// label with itself resets it to the identity.
func (m HeaderMap) With(source, target string) HeaderMap {
	next := HeaderMap{labels: m.labels, canon: make(map[string]string, len(m.canon))}
	for k, v := range m.canon {
		next.canon[k] = v
	}
	if source == target {
		next.canon[source] = source
		return next
	}

	dest := next.Canonical(target)
	if dest == source {
		dest = target
	}
	for k, v := range next.canon {
		if v == source {
			next.canon[k] = dest
		}
	}
	next.canon[source] = dest
	next.canon[dest] = dest
	return next
}

// Canonical returns the canonical label for label. Unknown labels pass through.
func (m HeaderMap) Canonical(label string) string {
	if c, ok := m.canon[label]; ok {
		return c
	}
	return label
}

// Labels returns the discovered labels in first-seen order.
func (m HeaderMap) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Renames returns only the labels whose canonical label differs.
func (m HeaderMap) Renames() map[string]string {
	out := make(map[string]string)
	for k, v := range m.canon {
		if k != v {
			out[k] = v
		}
	}
	return out
}

// ApplyHeaders returns a renamed copy of headers.
func (m HeaderMap) ApplyHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = m.Canonical(h)
	}
	return out
}

// Apply returns copies of blocks with renamed headers. Rows are shared with
// the input blocks and must not be modified.
func (m HeaderMap) Apply(blocks []models.NormalizedBlock) []models.NormalizedBlock {
	out := make([]models.NormalizedBlock, len(blocks))
	for i, b := range blocks {
		b.Headers = m.ApplyHeaders(b.Headers)
		out[i] = b
	}
	return out
}
