package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mdnotes/internal/handlers"
)

func TestPreview(t *testing.T) {
	h := handlers.NewPreviewHandler()

	t.Run("parses block tree", func(t *testing.T) {
		body := `{"text":"# Title\n\nSome **bold** text.\n\n- [x] done"}`
		req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Preview(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp handlers.PreviewResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		kinds := make([]string, len(resp.Blocks))
		for i, b := range resp.Blocks {
			kinds[i] = b.Kind
		}
		wantKinds := []string{"heading", "blank", "paragraph", "blank", "checklistItem"}
		if len(kinds) != len(wantKinds) {
			t.Fatalf("kinds = %v, want %v", kinds, wantKinds)
		}
		for i := range wantKinds {
			if kinds[i] != wantKinds[i] {
				t.Fatalf("kinds = %v, want %v", kinds, wantKinds)
			}
		}

		heading := resp.Blocks[0]
		if heading.Level != 1 || heading.Text != "Title" {
			t.Errorf("heading = %+v", heading)
		}

		para := resp.Blocks[2]
		var bold *handlers.SpanDTO
		for i := range para.Spans {
			if para.Spans[i].Kind == "bold" {
				bold = &para.Spans[i]
			}
		}
		if bold == nil || bold.Text != "bold" {
			t.Errorf("paragraph spans = %+v, want a bold span", para.Spans)
		}

		check := resp.Blocks[4]
		if check.Checked == nil || !*check.Checked || check.Text != "done" {
			t.Errorf("checklist = %+v", check)
		}
	})

	t.Run("table block", func(t *testing.T) {
		body := `{"text":"| Name | Qty |\n| --- | --- |\n| milk | 2 |"}`
		req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Preview(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp handlers.PreviewResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Blocks) != 1 || resp.Blocks[0].Kind != "table" {
			t.Fatalf("blocks = %+v, want one table", resp.Blocks)
		}
		table := resp.Blocks[0]
		if len(table.Header) != 2 || table.Header[0] != "Name" {
			t.Errorf("header = %v", table.Header)
		}
		if len(table.Rows) != 1 || table.Rows[0][0] != "milk" {
			t.Errorf("rows = %v", table.Rows)
		}
	})

	t.Run("empty text", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(`{"text":""}`))
		rec := httptest.NewRecorder()
		h.Preview(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp handlers.PreviewResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Blocks) != 0 {
			t.Errorf("blocks = %+v, want none", resp.Blocks)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(`not json`))
		rec := httptest.NewRecorder()
		h.Preview(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})
}
