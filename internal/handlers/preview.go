package handlers

import (
	"encoding/json"
	"net/http"

	"mdnotes/internal/contextutil"
	"mdnotes/internal/i18n"
	"mdnotes/internal/markdown"
)

// PreviewHandler renders markdown text into the block tree the clients
// consume. It is stateless and requires no authentication.
type PreviewHandler struct{}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler() *PreviewHandler {
	return &PreviewHandler{}
}

// PreviewRequest is the payload for the preview endpoint.
type PreviewRequest struct {
	Text string `json:"text"`
}

// PreviewResponse carries the parsed block tree.
type PreviewResponse struct {
	Blocks []BlockDTO `json:"blocks"`
}

// BlockDTO is the wire form of a parsed block. Only the fields relevant to
// the block's kind are populated.
type BlockDTO struct {
	Kind        string        `json:"kind"`
	Level       int           `json:"level,omitempty"`
	Index       int           `json:"index,omitempty"`
	Checked     *bool         `json:"checked,omitempty"`
	Text        string        `json:"text,omitempty"`
	Lang        string        `json:"lang,omitempty"`
	Code        string        `json:"code,omitempty"`
	Spans       []SpanDTO     `json:"spans,omitempty"`
	Header      []string      `json:"header,omitempty"`
	Rows        [][]string    `json:"rows,omitempty"`
	HeaderSpans [][]SpanDTO   `json:"header_spans,omitempty"`
	RowSpans    [][][]SpanDTO `json:"row_spans,omitempty"`
}

// SpanDTO is the wire form of an inline span.
type SpanDTO struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// Preview parses the submitted text and returns the block tree as JSON.
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, i18n.KeyInvalidBody)
		return
	}

	blocks := markdown.Parse(req.Text)
	resp := PreviewResponse{Blocks: make([]BlockDTO, len(blocks))}
	for i, b := range blocks {
		resp.Blocks[i] = toBlockDTO(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toBlockDTO(b markdown.Block) BlockDTO {
	switch v := b.(type) {
	case markdown.Heading:
		return BlockDTO{Kind: "heading", Level: v.Level, Text: v.Text, Spans: toSpanDTOs(v.Spans)}
	case markdown.UnorderedListItem:
		return BlockDTO{Kind: "unorderedListItem", Text: v.Text, Spans: toSpanDTOs(v.Spans)}
	case markdown.OrderedListItem:
		return BlockDTO{Kind: "orderedListItem", Index: v.Index, Text: v.Text, Spans: toSpanDTOs(v.Spans)}
	case markdown.ChecklistItem:
		checked := v.Checked
		return BlockDTO{Kind: "checklistItem", Checked: &checked, Text: v.Text, Spans: toSpanDTOs(v.Spans)}
	case markdown.CodeBlock:
		return BlockDTO{Kind: "codeBlock", Lang: v.Lang, Code: v.Code}
	case markdown.Blockquote:
		return BlockDTO{Kind: "blockquote", Text: v.Text, Spans: toSpanDTOs(v.Spans)}
	case markdown.Table:
		dto := BlockDTO{
			Kind:        "table",
			Header:      v.Header,
			Rows:        v.Rows,
			HeaderSpans: make([][]SpanDTO, len(v.HeaderSpans)),
			RowSpans:    make([][][]SpanDTO, len(v.RowSpans)),
		}
		for i, spans := range v.HeaderSpans {
			dto.HeaderSpans[i] = toSpanDTOs(spans)
		}
		for i, row := range v.RowSpans {
			dto.RowSpans[i] = make([][]SpanDTO, len(row))
			for j, spans := range row {
				dto.RowSpans[i][j] = toSpanDTOs(spans)
			}
		}
		return dto
	case markdown.HorizontalRule:
		return BlockDTO{Kind: "horizontalRule"}
	case markdown.Blank:
		return BlockDTO{Kind: "blank"}
	case markdown.Paragraph:
		return BlockDTO{Kind: "paragraph", Text: v.Text, Spans: toSpanDTOs(v.Spans)}
	default:
		return BlockDTO{Kind: "paragraph"}
	}
}

func toSpanDTOs(spans []markdown.Span) []SpanDTO {
	if len(spans) == 0 {
		return nil
	}
	out := make([]SpanDTO, len(spans))
	for i, s := range spans {
		out[i] = SpanDTO{Kind: spanKindName(s.Kind), Text: s.Text, URL: s.URL}
	}
	return out
}

func spanKindName(k markdown.SpanKind) string {
	switch k {
	case markdown.SpanBold:
		return "bold"
	case markdown.SpanItalic:
		return "italic"
	case markdown.SpanStrikethrough:
		return "strikethrough"
	case markdown.SpanInlineCode:
		return "inlineCode"
	case markdown.SpanLink:
		return "link"
	case markdown.SpanImage:
		return "image"
	default:
		return "plainText"
	}
}
