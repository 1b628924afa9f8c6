package service

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=../mocks/gateway_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lphuocloc/Oasis-Go-BE/shared/failure"
)

// Gateway is the outbound protocol boundary. Refund origination and status
// queries go through here; the concrete upstream API is not assumed.
type Gateway interface {
	Refund(ctx context.Context, orderID string, amount int64, reason string) error
	QueryStatus(ctx context.Context, orderID string) (string, error)
}

// noopGateway stands in until the upstream refund/query API is integrated.
// Refunds are accepted locally and logged; status queries are refused.
type noopGateway struct{}

func NewGateway() Gateway {
	return &noopGateway{}
}

func (g *noopGateway) Refund(ctx context.Context, orderID string, amount int64, reason string) error {
	log.Warn().
		Str("orderID", orderID).
		Int64("amount", amount).
		Str("reason", reason).
		Msg("refund recorded locally, upstream gateway call not implemented")

	return nil
}

func (g *noopGateway) QueryStatus(ctx context.Context, orderID string) (string, error) {
	return "", failure.Unimplemented("QueryStatus") // nolint:wrapcheck
}
