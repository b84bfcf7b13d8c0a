package handler

import (
	"encoding/json"
	"net/http"

	"chapterhub/internal/auth"

	"gorm.io/gorm"
)

type MeHandler struct {
	DB *gorm.DB
}

func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	mid, _ := auth.MemberIDFromContext(r.Context())

	var m auth.Member
	if err := h.DB.First(&m, "id = ?", mid).Error; err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"member_id":  m.ID,
		"email":      m.Email,
		"first_name": m.FirstName,
		"last_name":  m.LastName,
		"division":   m.Division,
	})
}
