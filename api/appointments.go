package api

import (
	"net/http"

	"github.com/garnizeh/carematch/internal/marketplace"
	"github.com/garnizeh/carematch/internal/validation"
	"github.com/gorilla/mux"
)

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in marketplace.AppointmentInput
	if err := h.decode(w, r, validation.Appointment, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	a, err := h.market.CreateAppointment(r.Context(), m, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// UpdateAppointmentStatus sets the status given in the path. Either participant
// may call it.
func (h *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	acct, err := h.resolver.ResolveAccount(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	a, err := h.market.UpdateAppointmentStatus(r.Context(), acct, id, mux.Vars(r)["status"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
