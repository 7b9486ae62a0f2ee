package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vanderheijden86/bookdeck/pkg/model"
	"github.com/vanderheijden86/bookdeck/pkg/settings"
)

func testLinks(n int) []*model.Node {
	out := make([]*model.Node, n)
	for i := range out {
		out[i] = &model.Node{
			ID:    string(rune('a' + i)),
			Kind:  model.KindLink,
			Title: "Link " + string(rune('A'+i)),
			URL:   "https://example.com/" + string(rune('a'+i)),
		}
	}
	return out
}

// chatServer returns an httptest server that replies to every chat-completion
// request with content, and a client pointed at it.
func chatServer(t *testing.T, content string) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer test-key", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, want test-model", req.Model)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	client := NewClient(settings.AICredentials{
		APIURL: srv.URL, APIKey: "test-key", Model: "test-model",
	})
	return srv, client
}

func TestAnalyzeBatch(t *testing.T) {
	reply := `Here are the ratings:
[
  {"index": 1, "score": 8, "dimension": "learn", "reason": "teaches Go"},
  {"index": 2, "score": 3, "dimension": "tool", "reason": "lookup only"}
]`
	srv, client := chatServer(t, reply)
	defer srv.Close()

	links := testLinks(2)
	var steps []Step
	got, err := client.AnalyzeBatch(context.Background(), links, func(s Step) { steps = append(steps, s) })
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d analyses, want 2", len(got))
	}
	if got[0].Link != links[0] || got[0].Score != 8 || got[0].Dimension != model.DimensionLearn {
		t.Errorf("first analysis = %+v", got[0])
	}
	if got[1].Link != links[1] || got[1].Score != 3 || got[1].Dimension != model.DimensionTool {
		t.Errorf("second analysis = %+v", got[1])
	}

	want := []Step{StepPreparing, StepSending, StepParsing, StepDone}
	if len(steps) != len(want) {
		t.Fatalf("steps = %v, want %v", steps, want)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("steps = %v, want %v", steps, want)
			break
		}
	}
}

func TestAnalyzeBatchEmptyInput(t *testing.T) {
	client := NewClient(settings.AICredentials{APIURL: "http://unused", APIKey: "k", Model: "m"})
	got, err := client.AnalyzeBatch(context.Background(), nil, nil)
	if err != nil || got != nil {
		t.Errorf("empty batch = (%v, %v), want (nil, nil)", got, err)
	}
}

func TestAnalyzeBatchIncompleteCredentials(t *testing.T) {
	client := NewClient(settings.AICredentials{})
	if client.Ready() {
		t.Fatal("empty credentials should not be ready")
	}
	_, err := client.AnalyzeBatch(context.Background(), testLinks(1), nil)
	if err == nil {
		t.Fatal("want an error without credentials")
	}
}

func TestParseAnalysesFallback(t *testing.T) {
	links := testLinks(3)
	got := parseAnalyses("I could not process this request.", links)
	if len(got) != 3 {
		t.Fatalf("fallback produced %d analyses, want one per link", len(got))
	}
	for i, a := range got {
		if a.Link != links[i] || a.Score != 1 || a.Dimension != model.DimensionOther {
			t.Errorf("fallback[%d] = %+v, want neutral score for link %d", i, a, i)
		}
	}
}

func TestParseAnalysesClampAndDimension(t *testing.T) {
	links := testLinks(2)
	reply := `[
		{"index": 1, "score": 42, "dimension": "WORKish", "reason": ""},
		{"index": 2, "score": -3, "dimension": "fun", "reason": "games"}
	]`
	got := parseAnalyses(reply, links)
	if got[0].Score != 10 {
		t.Errorf("score 42 clamped to %d, want 10", got[0].Score)
	}
	if got[0].Dimension != model.DimensionOther {
		t.Errorf("unknown dimension = %q, want other", got[0].Dimension)
	}
	if got[0].Reason == "" {
		t.Error("empty reason should be replaced")
	}
	if got[1].Score != 1 || got[1].Dimension != model.DimensionFun {
		t.Errorf("second analysis = %+v", got[1])
	}
}

func TestParseAnalysesPositionalFallback(t *testing.T) {
	links := testLinks(2)
	// No index fields: entries match positionally.
	reply := `[
		{"score": 5, "dimension": "work", "reason": "r1"},
		{"score": 6, "dimension": "learn", "reason": "r2"}
	]`
	got := parseAnalyses(reply, links)
	if len(got) != 2 || got[0].Link != links[0] || got[1].Link != links[1] {
		t.Errorf("positional matching failed: %+v", got)
	}
}

func TestRecommendForDimension(t *testing.T) {
	reply := `[
		{"index": 2, "priority": 5, "reason": "goes stale fast"},
		{"index": 1, "priority": 3, "reason": "evergreen"}
	]`
	srv, client := chatServer(t, reply)
	defer srv.Close()

	links := testLinks(3)
	analyses := []Analysis{
		{Link: links[0], Score: 9, Dimension: model.DimensionLearn},
		{Link: links[1], Score: 7, Dimension: model.DimensionLearn},
		{Link: links[2], Score: 2, Dimension: model.DimensionLearn},
	}
	got, err := client.RecommendForDimension(context.Background(), model.DimensionLearn, analyses, 2)
	if err != nil {
		t.Fatalf("RecommendForDimension: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(got))
	}
	// Index 2 refers to the second of the submitted top slice (score order).
	if got[0].Link != links[1] || got[0].Priority != 5 {
		t.Errorf("first recommendation = %+v", got[0])
	}
	if got[1].Link != links[0] || got[1].Priority != 3 {
		t.Errorf("second recommendation = %+v", got[1])
	}
}

func TestParseRecommendationsFallback(t *testing.T) {
	links := testLinks(2)
	top := []Analysis{
		{Link: links[0], Score: 9},
		{Link: links[1], Score: 7},
	}
	got := parseRecommendations("not json", top)
	if len(got) != 2 {
		t.Fatalf("fallback produced %d recommendations, want 2", len(got))
	}
	if got[0].Priority != 2 || got[1].Priority != 1 {
		t.Errorf("fallback priorities = %d,%d, want descending from len(top)", got[0].Priority, got[1].Priority)
	}
}

func TestTestConnection(t *testing.T) {
	srv, client := chatServer(t, "connection test successful")
	defer srv.Close()

	reply, elapsed, err := client.TestConnection(context.Background())
	if err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
	if reply != "connection test successful" {
		t.Errorf("reply = %q", reply)
	}
	if elapsed <= 0 {
		t.Error("elapsed should be positive")
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(settings.AICredentials{APIURL: srv.URL, APIKey: "k", Model: "m"})
	_, err := client.AnalyzeBatch(context.Background(), testLinks(1), nil)
	if err == nil {
		t.Fatal("want an error on HTTP 429")
	}
}
