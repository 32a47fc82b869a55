package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"jot/internal/note"

	"github.com/go-chi/chi/v5"
)

type TagService interface {
	List(ctx context.Context) ([]note.Tag, error)
	Create(ctx context.Context, name string) (*note.Tag, error)
	Delete(ctx context.Context, id uint64) error
}

type TagHandler struct {
	Tags TagService
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.Tags.List(r.Context())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]tagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagDTO{ID: t.ID, Name: t.Name})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	t, err := h.Tags.Create(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, note.ErrEmptyName) {
			http.Error(w, "tag name is required", http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tagDTO{ID: t.ID, Name: t.Name})
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.Tags.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, note.ErrNotFound):
			http.Error(w, "tag not found", http.StatusNotFound)
		case errors.Is(err, note.ErrTagInUse):
			http.Error(w, "tag has notes associated with it", http.StatusConflict)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "tag deleted successfully"})
}
