// Package provider names the external services the catering flow integrates with
// and describes how each one reports progress.
package provider

import (
	"catering/internal/core/domain/model/restaurant"
)

// Name identifies an external integration in mappers, metrics and configuration.
type Name string

const (
	Silpo Name = "silpo"
	KFC   Name = "kfc"
	Uklon Name = "uklon"
)

func (n Name) String() string {
	return string(n)
}

// Mode describes how sub-order progress reaches the service.
type Mode int

const (
	// Poll providers are asked for their status on a fixed interval.
	Poll Mode = iota + 1
	// Push providers report status changes through a webhook.
	Push
)

func (m Mode) String() string {
	switch m {
	case Poll:
		return "poll"
	case Push:
		return "push"
	default:
		return "unknown"
	}
}

// ForRestaurant returns the integration that cooks sub-orders of the given kind.
func ForRestaurant(kind restaurant.Kind) (Name, error) {
	switch kind {
	case restaurant.KindSilpo:
		return Silpo, nil
	case restaurant.KindKFC:
		return KFC, nil
	default:
		return "", restaurant.ErrUnsupportedRestaurant
	}
}
