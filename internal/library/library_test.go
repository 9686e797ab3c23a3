package library

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/db"
	"github.com/ziadkadry99/clil-studio/internal/generation"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
	"github.com/ziadkadry99/clil-studio/internal/vectordb"
)

var _ generation.LessonStore = (*Store)(nil)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	s := NewStore(database, append([]Option{WithAudit(audit.NewStore(database))}, opts...)...)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return s
}

func newLesson(title, content string) *lesson.Document {
	doc := &lesson.Document{Title: title}
	doc.Normalize()
	doc.Pillars[lesson.SectionContent] = lesson.Pillar{Versions: []string{content}}
	return doc
}

// charEmbedder spreads characters over a small vector so similar texts
// land close together.
type charEmbedder struct{}

func (charEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, 32)
		for _, ch := range strings.ToLower(text) {
			vec[int(ch)%32]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		if norm > 0 {
			for j := range vec {
				vec[j] /= float32(math.Sqrt(norm))
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (charEmbedder) Dimensions() int { return 32 }
func (charEmbedder) Name() string    { return "char" }

func TestSaveAssignsIDAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := newLesson("The Water Cycle", "<p>evaporation</p>")
	id, err := s.Save(ctx, "alice", doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}
	if doc.LessonID != "" {
		t.Error("Save must not modify the caller's document")
	}

	got, err := s.Get(ctx, "alice", id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.LessonID != id || got.Title != "The Water Cycle" {
		t.Errorf("unexpected document %+v", got)
	}
	if v := got.Pillars[lesson.SectionContent].Versions; len(v) != 1 || v[0] != "<p>evaporation</p>" {
		t.Errorf("content versions not preserved: %v", v)
	}
	if len(got.Pillars) != len(lesson.Sections) {
		t.Errorf("loaded document should be normalized, got %d pillars", len(got.Pillars))
	}
}

func TestSaveLeavesPillarsUntouched(t *testing.T) {
	s := newTestStore(t)
	doc := &lesson.Document{
		Title:   "Rivers",
		Pillars: map[lesson.Section]lesson.Pillar{lesson.SectionContent: {Versions: []string{"<p>deltas</p>"}}},
	}
	if _, err := s.Save(context.Background(), "alice", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(doc.Pillars) != 1 {
		t.Errorf("Save filled the caller's pillars: %d entries", len(doc.Pillars))
	}
}

func TestSaveUpsertsAndListOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, _ := s.Save(ctx, "alice", newLesson("First", "a"))
	second, _ := s.Save(ctx, "alice", newLesson("Second", "b"))

	doc, _ := s.Get(ctx, "alice", first)
	doc.Title = "First (edited)"
	if id, err := s.Save(ctx, "alice", doc); err != nil || id != first {
		t.Fatalf("update: got %q, %v", id, err)
	}

	list, err := s.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 lessons, got %d", len(list))
	}
	if list[0].ID != first || list[0].Title != "First (edited)" {
		t.Errorf("most recently modified lesson should come first: %+v", list)
	}
	if list[1].ID != second {
		t.Errorf("unexpected second entry %+v", list[1])
	}
	if !list[0].LastModified.After(list[1].LastModified) {
		t.Errorf("timestamps not ordered: %v vs %v", list[0].LastModified, list[1].LastModified)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _ := s.Save(ctx, "alice", newLesson("Private", "x"))

	if _, err := s.Get(ctx, "bob", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another owner, got %v", err)
	}
	doc := newLesson("Hijack", "y")
	doc.LessonID = id
	if _, err := s.Save(ctx, "bob", doc); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound when overwriting another owner's lesson, got %v", err)
	}
	if list, _ := s.List(ctx, "bob"); len(list) != 0 {
		t.Errorf("bob should see no lessons, got %v", list)
	}
	if err := s.Delete(ctx, "bob", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting another owner's lesson, got %v", err)
	}
	if err := s.Delete(ctx, "alice", id); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestTermSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	water, _ := s.Save(ctx, "alice", newLesson("The Water Cycle", "evaporation and condensation"))
	s.Save(ctx, "alice", newLesson("Ancient Rome", "the senate and 100% of the legions"))
	s.Save(ctx, "bob", newLesson("Bob's Water", "evaporation"))

	results, err := s.Search(ctx, "alice", "Evaporation water", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != water || results[0].Similarity != 1 {
		t.Fatalf("unexpected results %+v", results)
	}
	if !strings.Contains(results[0].Snippet, "evaporation") {
		t.Errorf("snippet missing content: %q", results[0].Snippet)
	}

	results, _ = s.Search(ctx, "alice", "100%", 5)
	if len(results) != 1 || results[0].Title != "Ancient Rome" {
		t.Errorf("LIKE wildcard should be matched literally: %+v", results)
	}

	if _, err := s.Search(ctx, "alice", "   ", 5); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestSemanticSearchAndReindex(t *testing.T) {
	idx, err := vectordb.NewChromemStore(charEmbedder{})
	if err != nil {
		t.Fatalf("NewChromemStore: %v", err)
	}
	s := newTestStore(t, WithIndex(idx))
	ctx := context.Background()

	id, _ := s.Save(ctx, "alice", newLesson("Volcanoes", "magma lava eruption"))
	s.Save(ctx, "bob", newLesson("Volcanoes too", "magma"))
	if idx.Count() != 2 {
		t.Fatalf("expected 2 indexed lessons, got %d", idx.Count())
	}

	results, err := s.Search(ctx, "alice", "lava", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != id || results[0].Title != "Volcanoes" {
		t.Fatalf("unexpected results %+v", results)
	}

	dir := t.TempDir()
	if err := s.PersistIndex(ctx, dir); err != nil {
		t.Fatalf("PersistIndex: %v", err)
	}

	fresh, _ := vectordb.NewChromemStore(charEmbedder{})
	s.index = fresh
	if err := s.LoadIndex(ctx, dir); err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if fresh.Count() != 2 {
		t.Errorf("expected persisted index to load, got %d", fresh.Count())
	}

	empty, _ := vectordb.NewChromemStore(charEmbedder{})
	s.index = empty
	if err := s.LoadIndex(ctx, t.TempDir()); err != nil {
		t.Fatalf("LoadIndex rebuild: %v", err)
	}
	if empty.Count() != 2 {
		t.Errorf("expected index rebuilt from database, got %d", empty.Count())
	}
}

func TestHistoryRecordsChangedSections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := newLesson("Rivers", "<p>a</p>")
	id, err := s.Save(ctx, "alice", doc)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	doc.LessonID = id
	doc.Title = "Rivers and deltas"
	doc.Pillars[lesson.SectionTasks] = lesson.Pillar{Versions: []string{"<p>t</p>"}}
	if _, err := s.Save(ctx, "alice", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(ctx, "alice", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	entries, err := s.History(ctx, "alice", id, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Action != audit.ActionDeleted || entries[2].Action != audit.ActionCreated {
		t.Errorf("unexpected order: %s, %s", entries[0].Action, entries[2].Action)
	}
	if got := entries[2].Sections; len(got) != 1 || got[0] != "content" {
		t.Errorf("created sections = %v", got)
	}
	upd := entries[1]
	if upd.Action != audit.ActionUpdated || len(upd.Sections) != 1 || upd.Sections[0] != "tasks" {
		t.Errorf("unexpected update entry %+v", upd)
	}
	if !strings.Contains(upd.Summary, `"Rivers"`) {
		t.Errorf("expected rename summary, got %q", upd.Summary)
	}

	if _, err := s.History(ctx, "bob", id, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another owner, got %v", err)
	}
}

func TestHistoryWithoutAudit(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	s := NewStore(database)
	if _, err := s.History(context.Background(), "alice", "x", 0); !errors.Is(err, ErrNoHistory) {
		t.Errorf("expected ErrNoHistory, got %v", err)
	}
}

const testSecret = "0123456789abcdef0123456789abcdef"

func setupRouter(t *testing.T) (*chi.Mux, string) {
	t.Helper()
	iss, err := auth.NewIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	token, _, err := iss.Issue(auth.User{ID: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, newTestStore(t), iss)
	return r, token
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesRequireToken(t *testing.T) {
	r, _ := setupRouter(t)
	for _, path := range []string{"/get_lessons", "/load_lesson/x", "/search_lessons?q=a", "/lessons/x/preview", "/lessons/x/history"} {
		if w := do(r, http.MethodGet, path, "", ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestLessonRoutes(t *testing.T) {
	r, token := setupRouter(t)

	body, _ := json.Marshal(newLesson("Rivers", "<p>Deltas form where rivers meet the sea.</p>"))
	w := do(r, http.MethodPost, "/save_lesson", token, string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("save: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var saved api.SaveResponse
	json.NewDecoder(w.Body).Decode(&saved)
	if !saved.Success || saved.LessonID == "" {
		t.Fatalf("unexpected save response %+v", saved)
	}

	w = do(r, http.MethodGet, "/load_lesson/"+saved.LessonID, token, "")
	var loaded api.LoadResponse
	json.NewDecoder(w.Body).Decode(&loaded)
	if !loaded.Success || loaded.Lesson == nil || loaded.Lesson.Title != "Rivers" {
		t.Fatalf("unexpected load response %d %+v", w.Code, loaded)
	}

	w = do(r, http.MethodGet, "/get_lessons", token, "")
	var list api.ListResponse
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Lessons) != 1 || list.Lessons[0].ID != saved.LessonID {
		t.Errorf("unexpected list %+v", list)
	}

	w = do(r, http.MethodGet, "/lessons/"+saved.LessonID+"/preview", token, "")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html preview, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "<title>Rivers</title>") || !strings.Contains(w.Body.String(), "Deltas form") {
		t.Errorf("preview missing content: %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/search_lessons?q=deltas&limit=3", token, "")
	var found api.SearchResponse
	json.NewDecoder(w.Body).Decode(&found)
	if !found.Success || len(found.Results) != 1 {
		t.Errorf("unexpected search response %+v", found)
	}

	w = do(r, http.MethodGet, "/lessons/"+saved.LessonID+"/history", token, "")
	var hist audit.HistoryResponse
	json.NewDecoder(w.Body).Decode(&hist)
	if !hist.Success || len(hist.Entries) != 1 || hist.Entries[0].Action != audit.ActionCreated {
		t.Errorf("unexpected history response %d %+v", w.Code, hist)
	}
}

func TestLessonRouteErrors(t *testing.T) {
	r, token := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing lesson", http.MethodGet, "/load_lesson/nope", "", http.StatusNotFound},
		{"missing preview", http.MethodGet, "/lessons/nope/preview", "", http.StatusNotFound},
		{"bad body", http.MethodPost, "/save_lesson", "{", http.StatusBadRequest},
		{"empty query", http.MethodGet, "/search_lessons", "", http.StatusBadRequest},
		{"missing history", http.MethodGet, "/lessons/nope/history", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, token, tt.body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var resp api.ErrorResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.Success || resp.Error == "" {
				t.Errorf("expected failure envelope, got %+v", resp)
			}
		})
	}
}
