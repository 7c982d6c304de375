package api

import (
	"github.com/garnizeh/carematch/internal/account"
	"github.com/garnizeh/carematch/internal/auth"
	"github.com/garnizeh/carematch/internal/marketplace"
	"github.com/garnizeh/carematch/internal/metrics"
	"github.com/garnizeh/carematch/internal/validation"
)

// Handler serves the /v1 endpoints. Handlers resolve the caller from the
// bearer token and hand the identity to the services.
type Handler struct {
	accounts  *account.Service
	market    *marketplace.Service
	resolver  *auth.Resolver
	validator *validation.Validator
	metrics   metrics.Recorder
}

func NewHandler(accounts *account.Service, market *marketplace.Service, resolver *auth.Resolver, validator *validation.Validator, m metrics.Recorder) *Handler {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Handler{accounts: accounts, market: market, resolver: resolver, validator: validator, metrics: m}
}
