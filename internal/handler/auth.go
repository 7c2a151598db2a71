package handler

import (
	"net/http"

	"github.com/uma-arai/sbcntr-stay/internal/model"
)

type authResponse struct {
	Message string         `json:"message"`
	User    model.UserView `json:"user"`
	Token   string         `json:"token"`
}

// Register は POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in model.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: "User registered successfully", User: result.User, Token: result.Token})
}

// Login は POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in model.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: "Login successful", User: result.User, Token: result.Token})
}
