package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jot/internal/auth"
	"jot/internal/note"

	"github.com/go-chi/chi/v5"
)

// NoteService is what the note endpoints need from the note layer. Every
// mutation takes the acting user; the service owns the ownership checks.
type NoteService interface {
	ListActive(ctx context.Context, user *auth.User) ([]note.Note, error)
	ListArchived(ctx context.Context, user *auth.User) ([]note.Note, error)
	Create(ctx context.Context, user *auth.User, title, content string, tagNames []string) (*note.Note, error)
	Update(ctx context.Context, id uint64, user *auth.User, title, content string, tagNames []string) (*note.Note, error)
	ToggleArchive(ctx context.Context, id uint64, user *auth.User) (*note.Note, error)
	Delete(ctx context.Context, id uint64, user *auth.User) error
}

type NoteHandler struct {
	Notes NoteService
}

type noteReq struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type noteDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []tagDTO  `json:"tags"`
}

type tagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func toNoteDTO(n note.Note) noteDTO {
	tags := make([]tagDTO, 0, len(n.Tags))
	for _, t := range n.Tags {
		tags = append(tags, tagDTO{ID: t.ID, Name: t.Name})
	}
	return noteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Archived:  n.Archived,
		CreatedAt: n.CreatedAt,
		Tags:      tags,
	}
}

func (h *NoteHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Notes.ListActive)
}

func (h *NoteHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Notes.ListArchived)
}

func (h *NoteHandler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, *auth.User) ([]note.Note, error)) {
	user, _ := auth.UserFromContext(r.Context())

	notes, err := fetch(r.Context(), user)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]noteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteDTO(n))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req noteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title is required", http.StatusUnprocessableEntity)
		return
	}

	n, err := h.Notes.Create(r.Context(), user, req.Title, req.Content, req.Tags)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toNoteDTO(*n))
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := noteID(w, r)
	if !ok {
		return
	}

	var req noteReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title is required", http.StatusUnprocessableEntity)
		return
	}

	n, err := h.Notes.Update(r.Context(), id, user, req.Title, req.Content, req.Tags)
	if err != nil {
		writeNoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toNoteDTO(*n))
}

func (h *NoteHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := noteID(w, r)
	if !ok {
		return
	}

	n, err := h.Notes.ToggleArchive(r.Context(), id, user)
	if err != nil {
		writeNoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toNoteDTO(*n))
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	id, ok := noteID(w, r)
	if !ok {
		return
	}

	if err := h.Notes.Delete(r.Context(), id, user); err != nil {
		writeNoteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "note deleted successfully"})
}

func noteID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeNoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, note.ErrNotFound):
		http.Error(w, "note not found", http.StatusNotFound)
	case errors.Is(err, note.ErrNotOwner):
		http.Error(w, "not the owner of this note", http.StatusForbidden)
	default:
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}
