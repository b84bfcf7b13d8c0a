package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chapterhub/internal/catalog"

	"github.com/go-chi/chi/v5"
)

type EventHandler struct {
	Catalog *catalog.Service
}

type eventDTO struct {
	ID                   uint64     `json:"id"`
	Name                 string     `json:"name"`
	Category             string     `json:"category"`
	Division             string     `json:"division,omitempty"`
	Description          string     `json:"description,omitempty"`
	StartAt              time.Time  `json:"start_at"`
	EndAt                *time.Time `json:"end_at,omitempty"`
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty"`
	Location             string     `json:"location,omitempty"`
	Status               string     `json:"status"`
	Tags                 []string   `json:"tags"`
}

func toEventDTO(e catalog.Event) eventDTO {
	return eventDTO{
		ID:                   e.ID,
		Name:                 e.Name,
		Category:             e.Category,
		Division:             e.Division,
		Description:          e.Description,
		StartAt:              e.StartAt,
		EndAt:                e.EndAt,
		RegistrationDeadline: e.RegistrationDeadline,
		Location:             e.Location,
		Status:               e.Status,
		Tags:                 []string(e.Tags),
	}
}

// List serves the catalog browse screen. A backend error degrades to
// an empty list: catalog browsing tolerates a stale/empty view until
// the next refresh and must never surface raw store errors.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	var f catalog.Filter

	if c := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("category"))); c != "" {
		if !catalog.ValidCategory(c) {
			http.Error(w, "invalid category", http.StatusBadRequest)
			return
		}
		f.Category = c
	}
	if s := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("status"))); s != "" {
		if !catalog.ValidStatus(s) {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		f.Status = s
	}
	f.Division = strings.TrimSpace(r.URL.Query().Get("division"))

	if v := strings.TrimSpace(r.URL.Query().Get("start_from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid start_from (RFC3339)", http.StatusBadRequest)
			return
		}
		f.StartFrom = &t
	}
	if v := strings.TrimSpace(r.URL.Query().Get("start_to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, "invalid start_to (RFC3339)", http.StatusBadRequest)
			return
		}
		f.StartTo = &t
	}

	events, err := h.Catalog.List(r.Context(), f)
	if err != nil {
		log.Printf("event list degraded to empty: %v\n", err)
		events = nil
	}

	out := make([]eventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, toEventDTO(e))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	e, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toEventDTO(*e))
}
