package api

import (
	"net/http"

	"github.com/garnizeh/carematch/internal/marketplace"
	"github.com/garnizeh/carematch/internal/validation"
)

// ListJobs is open to any authenticated account.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if _, err := h.resolver.ResolveAccount(r.Context(), tokenFrom(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}

	jobs, err := h.market.ListJobs(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(jobs))
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in marketplace.JobInput
	if err := h.decode(w, r, validation.Job, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	j, err := h.market.CreateJob(r.Context(), m, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in marketplace.JobInput
	if err := h.decode(w, r, validation.Job, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	j, err := h.market.UpdateJob(r.Context(), m, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.market.DeleteJob(r.Context(), m, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
