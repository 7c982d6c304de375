package api

import (
	"context"
	"net/http"

	"github.com/garnizeh/carematch/internal/marketplace"
	"github.com/garnizeh/carematch/internal/validation"
	"github.com/garnizeh/carematch/pkg/models"
)

func (h *Handler) ListCaregivers(w http.ResponseWriter, r *http.Request) {
	cs, err := h.market.ListCaregivers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(cs))
}

func (h *Handler) MyCaregiverProfile(w http.ResponseWriter, r *http.Request) {
	c, err := h.resolver.ResolveCaregiver(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marketplace.CaregiverListing(c))
}

func (h *Handler) UpdateCaregiverProfile(w http.ResponseWriter, r *http.Request) {
	c, err := h.resolver.ResolveCaregiver(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var patch marketplace.CaregiverPatch
	if err := h.decode(w, r, "", &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	l, err := h.market.UpdateCaregiver(r.Context(), c, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	ms, err := h.market.ListMembers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(ms))
}

func (h *Handler) MyMemberProfile(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marketplace.MemberListing(m))
}

func (h *Handler) UpdateMemberProfile(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var patch marketplace.MemberPatch
	if err := h.decode(w, r, "", &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	l, err := h.market.UpdateMember(r.Context(), m, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) GetAddress(w http.ResponseWriter, r *http.Request) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	a, err := h.market.GetAddress(r.Context(), m)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	h.saveAddress(w, r, http.StatusCreated, h.market.CreateAddress)
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	h.saveAddress(w, r, http.StatusOK, h.market.UpdateAddress)
}

type addressSaver func(ctx context.Context, actor *models.Member, in marketplace.AddressInput) (*models.Address, error)

func (h *Handler) saveAddress(w http.ResponseWriter, r *http.Request, status int, save addressSaver) {
	m, err := h.resolver.ResolveMember(r.Context(), tokenFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var in marketplace.AddressInput
	if err := h.decode(w, r, validation.Address, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	a, err := save(r.Context(), m, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, a)
}
