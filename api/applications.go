package api

import (
	"net/http"

	"github.com/garnizeh/carematch/internal/marketplace"
	"github.com/garnizeh/carematch/internal/validation"
)

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	c, err := h.resolver.ResolveCaregiver(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in marketplace.ApplicationInput
	if err := h.decode(w, r, validation.Application, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	app, err := h.market.Apply(r.Context(), c, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	c, err := h.resolver.ResolveCaregiver(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jobID, err := pathID(r, "job_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	caregiverID, err := pathID(r, "caregiver_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.market.Withdraw(r.Context(), c, jobID, caregiverID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
