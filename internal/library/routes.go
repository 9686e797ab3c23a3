package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/audit"
	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/editor"
	"github.com/ziadkadry99/clil-studio/internal/lesson"
)

// maxLessonBody bounds the size of a saved lesson document.
const maxLessonBody = 8 << 20

// RegisterRoutes mounts the lesson library endpoints. All of them require
// a bearer token accepted by verifier.
func RegisterRoutes(r chi.Router, store *Store, verifier auth.Verifier) {
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(verifier))
		r.Post("/save_lesson", handleSave(store))
		r.Get("/load_lesson/{id}", handleLoad(store))
		r.Get("/get_lessons", handleList(store))
		r.Get("/lessons/{id}/preview", handlePreview(store))
		r.Get("/search_lessons", handleSearch(store))
		r.Get("/lessons/{id}/history", handleHistory(store))
	})
}

func owner(r *http.Request) string {
	u, _ := auth.UserFromContext(r.Context())
	return u.ID
}

func handleSave(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc lesson.Document
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLessonBody)).Decode(&doc); err != nil {
			writeJSON(w, http.StatusBadRequest, api.SaveResponse{Error: "invalid lesson document"})
			return
		}
		id, err := store.Save(r.Context(), owner(r), &doc)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.SaveResponse{Success: true, LessonID: id})
	}
}

func handleLoad(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get(r.Context(), owner(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.LoadResponse{Success: true, Lesson: doc})
	}
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessons, err := store.List(r.Context(), owner(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.ListResponse{Success: true, Lessons: lessons})
	}
}

func handlePreview(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get(r.Context(), owner(r), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		var buf bytes.Buffer
		if err := editor.RenderDocument(&buf, doc); err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	}
}

func handleSearch(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := q.Get("q")
		if query == "" {
			writeJSON(w, http.StatusBadRequest, api.SearchResponse{Error: "q is required"})
			return
		}
		limit := DefaultSearchLimit
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		results, err := store.Search(r.Context(), owner(r), query, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if results == nil {
			results = []api.SearchResult{}
		}
		writeJSON(w, http.StatusOK, api.SearchResponse{Success: true, Results: results})
	}
}

func handleHistory(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		entries, err := store.History(r.Context(), owner(r), chi.URLParam(r, "id"), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, audit.HistoryResponse{Success: true, Entries: entries})
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrNoHistory):
		status = http.StatusNotImplemented
	}
	writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
