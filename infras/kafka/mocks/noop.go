package mocks

import (
	"context"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/lphuocloc/Oasis-Go-BE/infras/kafka"
)

type noopClient struct {
}

// SendMessages implements kafka.Client.
func (n *noopClient) SendMessages(_ context.Context, _ string, _ ...kafka.Message) error {
	return nil
}

// Consume implements kafka.Client.
func (n *noopClient) Consume(_ context.Context, _, _ string, _ func(message kafkaGo.Message)) {

}

// Reader implements kafka.Client.
func (n *noopClient) Reader(_, _ string) *kafkaGo.Reader {
	return nil
}

func NewNoop() kafka.Client {
	return &noopClient{}
}
