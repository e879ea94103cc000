package cleen_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/elum-utils/cleen"
	"github.com/elum-utils/cleen/adapters/ai"
	"github.com/elum-utils/cleen/decision"
	"github.com/elum-utils/cleen/engine"
	"github.com/elum-utils/cleen/models"
)

var posts = []models.Item{
	{ID: 101, Title: "ㅅㅂ 테스트", Content: "오늘 진짜 ㅅㅂ", Author: "익명"},
	{ID: 102, Title: "점심 메뉴", Content: "김치찌개", Author: "익명"},
	{ID: 103, Title: "논란의 글", Content: "19금 아님", Author: "익명"},
}

func geminiServer(t *testing.T, calls *atomic.Int64, status int, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, ":generateContent") || r.URL.Query().Get("key") != "test-key" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"unavailable"}}`))
			return
		}
		body := map[string]any{"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}}}}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGemini(t *testing.T, baseURL string) *ai.GeminiAdapter {
	t.Helper()
	g, err := ai.NewGeminiAdapter(ai.GeminiOptions{APIKey: "test-key", BaseURL: baseURL, Model: "gemini-test", Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPipelinePurifyOverHTTP(t *testing.T) {
	var calls atomic.Int64
	srv := geminiServer(t, &calls, http.StatusOK, "```json\n{\"filteredIds\":[101,999],\"purifyData\":{\"101\":[\"ㅅㅂ\"]}}\n```")
	f := cleen.New(cleen.Options{Classifier: newGemini(t, srv.URL)})

	report := f.Process(context.Background(), posts, models.Settings{Keywords: []string{"욕설"}, SensitivityLevel: 2, Mode: models.ModePurify})
	if calls.Load() != 1 {
		t.Fatalf("expected one remote call, got %d", calls.Load())
	}
	if report.Result.Degraded || !reflect.DeepEqual(report.Result.MatchedIDs, []int64{101}) {
		t.Fatalf("unexpected result: %+v", report.Result)
	}
	masked := decision.ApplyToItem(posts[0], report.Decisions[0])
	if masked.Title != "██ 테스트" || masked.Content != "오늘 진짜 ██" {
		t.Fatalf("unexpected masking: %+v", masked)
	}
	if report.Decisions[1].Action != models.ActionShow || report.Decisions[2].Action != models.ActionShow {
		t.Fatalf("unmatched posts must be shown: %+v", report.Decisions)
	}
}

func TestPipelineFallsBackOnServerError(t *testing.T) {
	var calls atomic.Int64
	srv := geminiServer(t, &calls, http.StatusServiceUnavailable, "")
	f := cleen.New(cleen.Options{Classifier: newGemini(t, srv.URL)})

	s := models.Settings{Keywords: []string{"논란"}, SensitivityLevel: 3, Mode: models.ModeRemove}
	report := f.Process(context.Background(), posts, s)
	want := engine.Match(posts, s.Keywords, false)
	if !report.Result.Degraded || report.Result.FallbackReason != models.ReasonTransport {
		t.Fatalf("expected degraded transport result: %+v", report.Result)
	}
	if !reflect.DeepEqual(report.Result.MatchedIDs, want.MatchedIDs) {
		t.Fatalf("fallback differs from heuristic: %v vs %v", report.Result.MatchedIDs, want.MatchedIDs)
	}
	if report.Decisions[2].Action != models.ActionDrop {
		t.Fatalf("expected post 103 dropped: %+v", report.Decisions)
	}
}

// Manual integration test with real Gemini.
//
// Required env:
//
//	CLEEN_IT_GEMINI_API_KEY
//
// Optional env:
//
//	CLEEN_IT_GEMINI_MODEL (default gemini-2.0-flash-exp)
func TestPipelineRealGemini(t *testing.T) {
	_ = godotenv.Load(".env")

	apiKey := strings.TrimSpace(os.Getenv("CLEEN_IT_GEMINI_API_KEY"))
	if apiKey == "" {
		t.Skip("set CLEEN_IT_GEMINI_API_KEY to run real integration test")
	}
	g, err := ai.NewGeminiAdapter(ai.GeminiOptions{
		APIKey:  apiKey,
		Model:   os.Getenv("CLEEN_IT_GEMINI_MODEL"),
		Timeout: 20 * time.Second,
	})
	if err != nil {
		t.Fatalf("new gemini adapter: %v", err)
	}

	f := cleen.New(cleen.Options{Classifier: g})
	var degraded atomic.Int64
	_ = f.OnAnalysisDegraded(func(_ context.Context, e cleen.AnalysisEvent) error {
		degraded.Add(1)
		t.Logf("degraded: reason=%s err=%v", e.FallbackReason, e.Err)
		return nil
	})

	res := f.Analyze(context.Background(), posts, models.Settings{Keywords: []string{"욕설"}, SensitivityLevel: 2, Mode: models.ModePurify})
	if degraded.Load() > 0 {
		t.Skipf("gemini unavailable in current environment: %v", res.Err)
	}
	known := models.IDSet(posts)
	for _, id := range res.MatchedIDs {
		if _, ok := known[id]; !ok {
			t.Fatalf("unknown id %d in result", id)
		}
	}
}
