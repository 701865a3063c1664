// Package markdown converts raw note text into an ordered sequence of typed
// blocks, each with its text resolved into styled inline spans. It covers the
// informal subset the app renders (headings, lists, checklists, fenced code,
// blockquotes, pipe tables, rules, emphasis, links, images) rather than full
// CommonMark. Parse is pure and total: malformed syntax degrades to literal
// text instead of failing.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var blockPatterns = struct {
	checklist *regexp.Regexp
	ordered   *regexp.Regexp
	tableSep  *regexp.Regexp
}{
	checklist: regexp.MustCompile(`^-\s+\[([ x])\]\s*(.*)$`),
	ordered:   regexp.MustCompile(`^(\d+)\.\s+(.*)$`),
	tableSep:  regexp.MustCompile(`^[\s|:-]+$`),
}

// Parse splits text into lines and walks them once, front to back. For each
// line the first matching rule wins and consumes one or more lines. The empty
// string parses to no blocks; every other input partitions exhaustively, so
// rejoining the Raw lines of the result reconstructs the input.
func Parse(text string) []Block {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	var blocks []Block
	for i := 0; i < len(lines); {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if isHorizontalRule(trimmed) {
			blocks = append(blocks, HorizontalRule{raw: lines[i : i+1]})
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "> ") {
			quote, next := parseBlockquote(lines, i)
			blocks = append(blocks, quote)
			i = next
			continue
		}

		if isTableHeader(trimmed) {
			table, next := parseTable(lines, i)
			blocks = append(blocks, table)
			i = next
			continue
		}

		if level, rest, ok := headingPrefix(line); ok {
			blocks = append(blocks, Heading{
				Level: level,
				Text:  rest,
				Spans: ParseInline(rest),
				raw:   lines[i : i+1],
			})
			i++
			continue
		}

		if m := blockPatterns.checklist.FindStringSubmatch(trimmed); m != nil {
			blocks = append(blocks, ChecklistItem{
				Checked: m[1] == "x",
				Text:    m[2],
				Spans:   ParseInline(m[2]),
				raw:     lines[i : i+1],
			})
			i++
			continue
		}

		if m := blockPatterns.ordered.FindStringSubmatch(trimmed); m != nil {
			index, _ := strconv.Atoi(m[1])
			blocks = append(blocks, OrderedListItem{
				Index: index,
				Text:  m[2],
				Spans: ParseInline(m[2]),
				raw:   lines[i : i+1],
			})
			i++
			continue
		}

		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			item := trimmed[2:]
			blocks = append(blocks, UnorderedListItem{
				Text:  item,
				Spans: ParseInline(item),
				raw:   lines[i : i+1],
			})
			i++
			continue
		}

		if strings.HasPrefix(line, "```") {
			code, next := parseFencedCode(lines, i)
			blocks = append(blocks, code)
			i = next
			continue
		}

		if trimmed == "" {
			blocks = append(blocks, Blank{raw: lines[i : i+1]})
			i++
			continue
		}

		blocks = append(blocks, Paragraph{
			Text:  line,
			Spans: ParseInline(line),
			raw:   lines[i : i+1],
		})
		i++
	}
	return blocks
}

// isHorizontalRule reports whether trimmed is three or more repeats of the
// same rule character.
func isHorizontalRule(trimmed string) bool {
	if len(trimmed) < 3 {
		return false
	}
	c := trimmed[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	for j := 1; j < len(trimmed); j++ {
		if trimmed[j] != c {
			return false
		}
	}
	return true
}

// headingPrefix checks the longest marker first so "#### " is not consumed
// as a level-1 heading with "### " text.
func headingPrefix(line string) (int, string, bool) {
	for level := 4; level >= 1; level-- {
		marker := strings.Repeat("#", level) + " "
		if strings.HasPrefix(line, marker) {
			return level, line[len(marker):], true
		}
	}
	return 0, "", false
}

func parseBlockquote(lines []string, start int) (Blockquote, int) {
	var body []string
	i := start
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(trimmed, "> ") {
			break
		}
		body = append(body, strings.TrimPrefix(trimmed, "> "))
		i++
	}
	text := strings.Join(body, "\n")
	return Blockquote{
		Text:  text,
		Spans: ParseInline(text),
		raw:   lines[start:i],
	}, i
}

// isTableHeader mirrors the app's loose table detection: the line contains a
// pipe and splitting on "|" yields at least three segments, which admits
// "| A | B |" (edge artifacts included) but not "A | B".
func isTableHeader(trimmed string) bool {
	return strings.Contains(trimmed, "|") && len(strings.Split(trimmed, "|")) >= 3
}

// isTableSeparator matches the row of dashes under a header. Blank lines are
// excluded even though they vacuously contain only allowed characters.
func isTableSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed != "" && blockPatterns.tableSep.MatchString(trimmed)
}

// splitCells splits a row on "|", trims each cell, and drops the empty edge
// artifacts produced by leading and trailing pipes. Interior empty cells are
// kept.
func splitCells(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	for len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// parseTable consumes the header row, an optional separator row, and every
// following line containing a pipe. A table cut off by end of input still
// emits whatever rows were collected.
func parseTable(lines []string, start int) (Table, int) {
	header := splitCells(lines[start])
	i := start + 1
	if i < len(lines) && isTableSeparator(lines[i]) {
		i++
	}
	var rows [][]string
	for i < len(lines) && strings.Contains(lines[i], "|") {
		rows = append(rows, splitCells(lines[i]))
		i++
	}

	headerSpans := make([][]Span, len(header))
	for j, cell := range header {
		headerSpans[j] = ParseInline(cell)
	}
	rowSpans := make([][][]Span, len(rows))
	for j, row := range rows {
		rowSpans[j] = make([][]Span, len(row))
		for k, cell := range row {
			rowSpans[j][k] = ParseInline(cell)
		}
	}

	return Table{
		Header:      header,
		Rows:        rows,
		HeaderSpans: headerSpans,
		RowSpans:    rowSpans,
		raw:         lines[start:i],
	}, i
}

// parseFencedCode consumes the opening fence, the body verbatim, and the
// closing fence if one exists. An unterminated fence runs to end of input.
func parseFencedCode(lines []string, start int) (CodeBlock, int) {
	lang := strings.TrimSpace(strings.TrimPrefix(lines[start], "```"))
	var body []string
	i := start + 1
	for i < len(lines) {
		if strings.HasPrefix(lines[i], "```") {
			i++
			return CodeBlock{
				Lang: lang,
				Code: strings.Join(body, "\n"),
				raw:  lines[start:i],
			}, i
		}
		body = append(body, lines[i])
		i++
	}
	return CodeBlock{
		Lang: lang,
		Code: strings.Join(body, "\n"),
		raw:  lines[start:i],
	}, i
}
