package markdown

import (
	"regexp"
	"sort"
)

// Inline pattern families in registration priority order. Go's regexp is
// stateless across calls, so package-level compilation is safe. Bold and
// italic need one alternative per delimiter because RE2 has no backreferences.
var inlinePatterns = struct {
	image  *regexp.Regexp
	link   *regexp.Regexp
	code   *regexp.Regexp
	bold   *regexp.Regexp
	strike *regexp.Regexp
	italic *regexp.Regexp
}{
	image:  regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`),
	link:   regexp.MustCompile(`\[(.*?)\]\((.*?)\)`),
	code:   regexp.MustCompile("`([^`]+)`"),
	bold:   regexp.MustCompile(`\*\*(.+?)\*\*|__(.+?)__`),
	strike: regexp.MustCompile(`~~(.+?)~~`),
	italic: regexp.MustCompile(`\*(.+?)\*|_(.+?)_`),
}

// candidate is one potential styled span before overlap resolution.
type candidate struct {
	kind       SpanKind
	start, end int
	text       string
	url        string
}

// ParseInline resolves a block's renderable text into an ordered sequence of
// non-overlapping spans. All pattern families are matched independently
// first; overlapping candidates are then resolved by keeping the longer match
// (ties go to the earlier-registered family). Text outside any match becomes
// PlainText, so unmatched delimiters always pass through literally.
func ParseInline(text string) []Span {
	if text == "" {
		return nil
	}

	var cands []candidate

	for _, m := range inlinePatterns.image.FindAllStringSubmatchIndex(text, -1) {
		cands = append(cands, candidate{
			kind:  SpanImage,
			start: m[0],
			end:   m[1],
			text:  text[m[2]:m[3]],
			url:   text[m[4]:m[5]],
		})
	}

	for _, m := range inlinePatterns.link.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > 0 && text[m[0]-1] == '!' {
			// Belongs to an image match.
			continue
		}
		cands = append(cands, candidate{
			kind:  SpanLink,
			start: m[0],
			end:   m[1],
			text:  text[m[2]:m[3]],
			url:   text[m[4]:m[5]],
		})
	}

	for _, m := range inlinePatterns.code.FindAllStringSubmatchIndex(text, -1) {
		cands = append(cands, candidate{
			kind:  SpanInlineCode,
			start: m[0],
			end:   m[1],
			text:  text[m[2]:m[3]],
		})
	}

	for _, m := range inlinePatterns.bold.FindAllStringSubmatchIndex(text, -1) {
		cands = append(cands, candidate{
			kind:  SpanBold,
			start: m[0],
			end:   m[1],
			text:  altGroup(text, m),
		})
	}

	for _, m := range inlinePatterns.strike.FindAllStringSubmatchIndex(text, -1) {
		cands = append(cands, candidate{
			kind:  SpanStrikethrough,
			start: m[0],
			end:   m[1],
			text:  text[m[2]:m[3]],
		})
	}

	// Italic runs last, over a copy with every already-claimed byte masked
	// out. RE2 has no lookarounds, so this is what keeps the "*"/"_" pairs of
	// bold runs and the emphasis characters inside code spans and link URLs
	// from spawning spurious italic matches, and keeps a bold run's trailing
	// delimiter from swallowing the opening delimiter of a real italic after
	// it. Captured text is sliced from the original, unmasked input.
	masked := []byte(text)
	for _, c := range cands {
		for j := c.start; j < c.end; j++ {
			masked[j] = 0
		}
	}
	for _, m := range inlinePatterns.italic.FindAllSubmatchIndex(masked, -1) {
		cands = append(cands, candidate{
			kind:  SpanItalic,
			start: m[0],
			end:   m[1],
			text:  altGroup(text, m),
		})
	}

	// Stable sort keeps registration order for equal starts, so the family
	// priority decides ties.
	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].start < cands[b].start
	})

	var kept []candidate
	for _, c := range cands {
		if len(kept) > 0 {
			last := kept[len(kept)-1]
			if c.start < last.end {
				if c.end-c.start > last.end-last.start {
					kept[len(kept)-1] = c
				}
				continue
			}
		}
		kept = append(kept, c)
	}

	var spans []Span
	pos := 0
	for _, c := range kept {
		if c.start > pos {
			spans = append(spans, Span{Kind: SpanPlainText, Text: text[pos:c.start]})
		}
		spans = append(spans, Span{Kind: c.kind, Text: c.text, URL: c.url})
		pos = c.end
	}
	if pos < len(text) {
		spans = append(spans, Span{Kind: SpanPlainText, Text: text[pos:]})
	}
	return spans
}

// altGroup returns whichever capture group of a two-alternative pattern
// actually matched.
func altGroup(text string, m []int) string {
	if m[2] >= 0 {
		return text[m[2]:m[3]]
	}
	return text[m[4]:m[5]]
}
