package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jonathanyeong/inkwell/internal/apperr"
	"github.com/jonathanyeong/inkwell/internal/sm2"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// entryPath extracts the entry path from the URL (everything after /entries/).
// Supports encoded slashes from API clients (e.g. entries%2Ffoo.md).
func entryPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListEntries handles GET /entries.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	status := q.Get("status")

	items, total, err := h.svc.ListEntries(r.Context(), limit, offset, status)
	if err != nil {
		slog.Error("list entries failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: items, Total: total})
}

// DueEntries handles GET /entries/due.
func (h *Handler) DueEntries(w http.ResponseWriter, r *http.Request) {
	due, err := h.svc.DueEntries(r.Context())
	if err != nil {
		slog.Error("due entries failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DueResponse{Entries: due, Total: len(due)})
}

// GetEntry handles GET /entries/*.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	path := entryPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	rec, err := h.svc.GetEntry(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get entry failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// CreateEntry handles POST /entries.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}
	rec, err := h.svc.AddEntry(r.Context(), req.Content)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("entry already exists"))
		} else {
			slog.Error("create entry failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// StartReview handles POST /review/start.
func (h *Handler) StartReview(w http.ResponseWriter, r *http.Request) {
	rec, prog, err := h.svc.StartReview(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNothingDue):
			writeJSON(w, http.StatusOK, ReviewResponse{Done: true})
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("review already in progress"))
		default:
			slog.Error("start review failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, ReviewResponse{Entry: rec, Progress: &prog})
}

// CurrentReview handles GET /review/current.
func (h *Handler) CurrentReview(w http.ResponseWriter, r *http.Request) {
	rec, prog, err := h.svc.CurrentReview(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNoActiveEntry) {
			writeJSON(w, http.StatusConflict, errorBody("no review in progress"))
		} else {
			slog.Error("current review failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, ReviewResponse{Entry: rec, Progress: &prog})
}

// Rate handles POST /review/rate.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rating, err := sm2.ParseRating(req.Rating)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("rating must be fruitful, skip, or unfruitful"))
		return
	}

	rec, prog, done, err := h.svc.SubmitRating(r.Context(), rating, req.Content)
	if err != nil {
		if errors.Is(err, apperr.ErrNoActiveEntry) {
			writeJSON(w, http.StatusConflict, errorBody("no review in progress"))
		} else {
			slog.Error("rate failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if done {
		writeJSON(w, http.StatusOK, ReviewResponse{Done: true})
		return
	}
	writeJSON(w, http.StatusOK, ReviewResponse{Entry: rec, Progress: &prog})
}

// Archive handles POST /review/archive.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	rec, prog, done, err := h.svc.SubmitArchive(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNoActiveEntry):
			writeJSON(w, http.StatusConflict, errorBody("no review in progress"))
		case errors.Is(err, apperr.ErrRelocate):
			writeJSON(w, http.StatusInternalServerError, errorBody("entry archived but not relocated"))
		default:
			slog.Error("archive failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	if done {
		writeJSON(w, http.StatusOK, ReviewResponse{Done: true})
		return
	}
	writeJSON(w, http.StatusOK, ReviewResponse{Entry: rec, Progress: &prog})
}

// StopReview handles POST /review/stop.
func (h *Handler) StopReview(w http.ResponseWriter, r *http.Request) {
	h.svc.StopReview(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
