package api

import (
	"net/http"

	"github.com/garnizeh/carematch/internal/account"
	"github.com/garnizeh/carematch/internal/validation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(w, r, validation.Login, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	sess, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) RegisterCaregiver(w http.ResponseWriter, r *http.Request) {
	var req account.CaregiverRegistration
	if err := h.decode(w, r, validation.CaregiverRegistration, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.accounts.RegisterCaregiver(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) RegisterMember(w http.ResponseWriter, r *http.Request) {
	var req account.MemberRegistration
	if err := h.decode(w, r, validation.MemberRegistration, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.accounts.RegisterMember(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}
