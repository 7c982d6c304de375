package api

import (
	"net/http"

	"github.com/garnizeh/carematch/internal/account"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	a, err := h.resolver.ResolveAccount(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.accounts.Profile(r.Context(), a)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	a, err := h.resolver.ResolveAccount(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var patch account.AccountPatch
	if err := h.decode(w, r, "", &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.accounts.UpdateAccount(r.Context(), a, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	a, err := h.resolver.ResolveAccount(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), a); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyJobs lists the jobs posted by the calling member.
func (h *Handler) MyJobs(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	jobs, err := h.market.ListMyJobs(r.Context(), m)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(jobs))
}

// MyApplications lists the applications submitted by the calling caregiver.
func (h *Handler) MyApplications(w http.ResponseWriter, r *http.Request) {
	c, err := h.resolver.ResolveCaregiver(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apps, err := h.market.MyApplications(r.Context(), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(apps))
}

// ApplicationsForMyJobs lists applications received on the calling member's jobs.
func (h *Handler) ApplicationsForMyJobs(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	apps, err := h.market.ApplicationsForMyJobs(r.Context(), m)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(apps))
}

func (h *Handler) CaregiverAppointments(w http.ResponseWriter, r *http.Request) {
	c, err := h.resolver.ResolveCaregiver(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	appts, err := h.market.CaregiverAppointments(r.Context(), c)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(appts))
}

func (h *Handler) MemberAppointments(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	appts, err := h.market.MemberAppointments(r.Context(), m)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(appts))
}
