package generation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/clil-studio/internal/api"
)

// RegisterRoutes mounts every generation endpoint on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	RegisterRequestRoutes(r, svc)
	RegisterStreamRoutes(r, svc)
}

// RegisterRequestRoutes mounts the request/response endpoints.
func RegisterRequestRoutes(r chi.Router, svc *Service) {
	r.Post("/generate", generateHandler(svc))
	r.Post("/generate_helper", helperHandler(svc))
	r.Post("/generate_insight", insightHandler(svc))
	r.Post("/generate_related_tags", relatedTagsHandler(svc))
	r.Post("/chat", chatHandler(svc))
	r.Get("/usage", usageHandler(svc))
}

// RegisterStreamRoutes mounts the long-lived endpoints. They must not sit
// behind a request timeout.
func RegisterStreamRoutes(r chi.Router, svc *Service) {
	r.Post("/generate_inline", inlineHandler(svc))
	r.Get("/ws/chat", wsChatHandler(svc))
}

func generateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.GenerateRequest
		if !decode(w, r, &req) {
			return
		}
		data, err := svc.Generate(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		resp := api.GenerateResponse{Success: true, Data: data}
		if req.Section != "" && req.Section != api.SectionAll {
			resp.Section = req.Section
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func helperHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.HelperRequest
		if !decode(w, r, &req) {
			return
		}
		data, err := svc.Helper(r.Context(), req.Prompt)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.HelperResponse{Success: true, HelperData: data})
	}
}

func insightHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.InsightRequest
		if !decode(w, r, &req) {
			return
		}
		data, err := svc.Insight(r.Context(), req.Concept, req.HelperContext)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.InsightResponse{Success: true, InsightData: data})
	}
}

func relatedTagsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.RelatedTagsRequest
		if !decode(w, r, &req) {
			return
		}
		tags, err := svc.RelatedTags(r.Context(), req.Tag, req.Context)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.RelatedTagsResponse{Success: true, Tags: tags})
	}
}

// inlineHandler streams raw text chunks. A request rejected before the
// first chunk gets a JSON error with its status. Once a chunk is written
// the status cannot change, so a later failure is reported as a final
// chunk starting with api.InlineErrorPrefix.
func inlineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.InlineRequest
		if !decode(w, r, &req) {
			return
		}
		flusher, _ := w.(http.Flusher)
		started := false
		start := func() {
			if started {
				return
			}
			started = true
			w.Header().Set("Content-Type", "text/event-stream")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("X-Accel-Buffering", "no")
			w.WriteHeader(http.StatusOK)
		}

		err := svc.Inline(r.Context(), req, func(chunk string) error {
			start()
			if _, err := w.Write([]byte(chunk)); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
			return nil
		})
		switch {
		case err != nil && !started:
			writeError(w, err)
		case err != nil:
			w.Write([]byte(api.InlineErrorPrefix + err.Error()))
		default:
			start()
		}
	}
}

func chatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.ChatRequest
		if !decode(w, r, &req) {
			return
		}
		reply, err := svc.Chat(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, api.ChatResponse{Success: true, Message: reply})
	}
}

func usageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Usage())
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// writeError maps validation failures to 400, an exhausted budget to 429
// and everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, ErrBudgetExceeded):
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, api.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
