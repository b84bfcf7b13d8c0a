package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chapterhub/internal/chapter"
)

type ChapterHandler struct {
	Svc *chapter.Service
}

type announcementDTO struct {
	ID       uint64    `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Pinned   bool      `json:"pinned"`
	Tags     []string  `json:"tags"`
	PostedAt time.Time `json:"posted_at"`
}

type resourceDTO struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

func (h *ChapterHandler) Announcements(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	rows, err := h.Svc.ListAnnouncements(r.Context(), limit)
	if err != nil {
		log.Printf("announcements degraded to empty: %v\n", err)
		rows = nil
	}

	out := make([]announcementDTO, 0, len(rows))
	for _, a := range rows {
		out = append(out, announcementDTO{
			ID:       a.ID,
			Title:    a.Title,
			Body:     a.Body,
			Pinned:   a.Pinned,
			Tags:     []string(a.Tags),
			PostedAt: a.PostedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (h *ChapterHandler) Resources(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.ListResources(r.Context())
	if err != nil {
		log.Printf("resources degraded to empty: %v\n", err)
		rows = nil
	}

	out := make([]resourceDTO, 0, len(rows))
	for _, res := range rows {
		out = append(out, resourceDTO{
			ID:       res.ID,
			Title:    res.Title,
			URL:      res.URL,
			Category: res.Category,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
