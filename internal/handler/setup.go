package handler

import (
	"net/http"
	"strconv"

	"github.com/uma-arai/sbcntr-stay/internal/model"
)

type setupStatusResponse struct {
	Provisioned bool `json:"provisioned"`
}

// Setup は POST /api/setup
// seed=false を指定した場合はテーブルのみを作成します
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	seed := true
	if raw := r.URL.Query().Get("seed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, model.NewValidationError("seed must be a boolean"))
			return
		}
		seed = v
	}

	result, err := h.setup.Setup(r.Context(), seed)
	if err != nil {
		writeError(w, r, err)
		return
	}

	message := "Database setup completed successfully"
	if result.Seeded {
		message = "Database setup completed successfully with sample data"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: message})
}

// SetupStatus は GET /api/setup
func (h *Handler) SetupStatus(w http.ResponseWriter, r *http.Request) {
	ok, err := h.setup.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setupStatusResponse{Provisioned: ok})
}
