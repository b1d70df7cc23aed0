package domain

import "errors"

// Tipos de erro do pipeline de relatórios
var (
	ErrInvalidPeriod       = errors.New("invalid period")
	ErrUpstreamUnavailable = errors.New("ads platform unavailable")
	ErrUpstreamRateLimited = errors.New("ads platform rate limited")
	ErrDeliveryFailed      = errors.New("webhook delivery failed")
	ErrNotConfigured       = errors.New("client not configured for dispatch")
	ErrClientNotFound      = errors.New("client not found")
)
