package transcript

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voicemed/platform/pkg/logging"
)

func newHintRouter() http.Handler {
	return NewHandler(nil, logging.Default()).Routes()
}

func postHint(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/hint", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExtractHintMatched(t *testing.T) {
	r := newHintRouter()

	w := postHint(t, r, `{"transcript": "I'd like to come in tomorrow at 3 pm please"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Phrase string `json:"phrase"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Phrase != "tomorrow at 3 pm" {
		t.Errorf("expected phrase %q, got %q", "tomorrow at 3 pm", resp.Phrase)
	}
}

func TestExtractHintNoMatch(t *testing.T) {
	r := newHintRouter()

	w := postHint(t, r, `{"transcript": "my knee has been hurting for weeks"}`)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestExtractHintBadBody(t *testing.T) {
	r := newHintRouter()

	w := postHint(t, r, `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
