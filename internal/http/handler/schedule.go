package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"chapterhub/internal/auth"
	"chapterhub/internal/catalog"
	"chapterhub/internal/reminder"
	"chapterhub/internal/schedule"

	"github.com/go-chi/chi/v5"
)

type ScheduleHandler struct {
	Store       *schedule.Store
	Catalog     *catalog.Service
	Coordinator *reminder.Coordinator
}

type associationDTO struct {
	ID               uint64    `json:"id"`
	EventID          uint64    `json:"event_id"`
	ReminderEnabled  bool      `json:"reminder_enabled"`
	ReminderLeadDays int       `json:"reminder_lead_days"`
	ReminderSent     bool      `json:"reminder_sent"`
	CreatedAt        time.Time `json:"created_at"`
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	mid, _ := auth.MemberIDFromContext(r.Context())

	rows, err := h.Store.ListByMember(r.Context(), mid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	out := make([]associationDTO, 0, len(rows))
	for _, a := range rows {
		out = append(out, associationDTO{
			ID:               a.ID,
			EventID:          a.EventID,
			ReminderEnabled:  a.ReminderEnabled,
			ReminderLeadDays: a.ReminderLeadDays,
			ReminderSent:     a.ReminderSent,
			CreatedAt:        a.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

type addReq struct {
	ReminderEnabled  *bool `json:"reminder_enabled"`
	ReminderLeadDays *int  `json:"reminder_lead_days"`
}

// Add puts an event on the caller's schedule. Adding an event that is
// already there succeeds without touching the existing row, so a
// double-tap from the app never errors and never resets settings.
func (h *ScheduleHandler) Add(w http.ResponseWriter, r *http.Request) {
	mid, _ := auth.MemberIDFromContext(r.Context())

	eventID, err := strconv.ParseUint(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	// The event must exist; a definite answer is required here.
	if _, err := h.Catalog.Get(r.Context(), eventID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "event not found", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	in := schedule.DefaultAddInput()
	if r.Body != nil && r.ContentLength != 0 {
		var req addReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ReminderEnabled != nil {
			in.ReminderEnabled = *req.ReminderEnabled
		}
		if req.ReminderLeadDays != nil {
			in.ReminderLeadDays = *req.ReminderLeadDays
		}
	}

	if err := h.Store.Add(r.Context(), mid, eventID, in); err != nil {
		if errors.Is(err, schedule.ErrInvalidLead) {
			http.Error(w, "reminder_lead_days must be >= 0", http.StatusBadRequest)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) Remove(w http.ResponseWriter, r *http.Request) {
	mid, _ := auth.MemberIDFromContext(r.Context())

	eventID, err := strconv.ParseUint(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	if err := h.Store.Remove(r.Context(), mid, eventID); err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reminderSettingsReq struct {
	Enabled  bool `json:"enabled"`
	LeadDays *int `json:"lead_days"`
}

func (h *ScheduleHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	mid, _ := auth.MemberIDFromContext(r.Context())

	eventID, err := strconv.ParseUint(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}

	var req reminderSettingsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	err = h.Store.UpdateReminderSettings(r.Context(), mid, eventID, req.Enabled, req.LeadDays)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, schedule.ErrInvalidLead):
			http.Error(w, "lead_days must be >= 0", http.StatusBadRequest)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type dueReminderDTO struct {
	AssociationID uint64    `json:"association_id"`
	EventID       uint64    `json:"event_id"`
	EventName     string    `json:"event_name"`
	TriggerAt     time.Time `json:"trigger_at"`
	ReferenceAt   time.Time `json:"reference_at"`
}

// Due answers the in-app banner/badge query: which reminders are live
// right now, without firing them. Backend errors degrade to an empty
// banner.
func (h *ScheduleHandler) Due(w http.ResponseWriter, r *http.Request) {
	mid, _ := auth.MemberIDFromContext(r.Context())

	out := []dueReminderDTO{}
	if rows, err := h.Store.ListByMember(r.Context(), mid); err == nil && len(rows) > 0 {
		ids := make([]uint64, 0, len(rows))
		for _, a := range rows {
			ids = append(ids, a.EventID)
		}
		if events, err := h.Catalog.ByIDs(r.Context(), ids); err == nil {
			for _, d := range schedule.DueReminders(time.Now(), rows, events) {
				out = append(out, dueReminderDTO{
					AssociationID: d.Association.ID,
					EventID:       d.Event.ID,
					EventName:     d.Event.Name,
					TriggerAt:     d.TriggerAt,
					ReferenceAt:   d.ReferenceAt,
				})
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Dispatch runs one dispatch cycle for the caller, the screen-focus
// trigger from the app. A cycle already in flight for this member
// makes this a no-op.
func (h *ScheduleHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	mid, _ := auth.MemberIDFromContext(r.Context())

	fired, err := h.Coordinator.RunCycle(r.Context(), mid)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"fired": fired})
}
