package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"billing-counter/billing-svc/internal/domain"
)

// KafkaPublisher emits every finalized transaction to an event feed for
// downstream reporting. Entirely optional; the session runs without it.
type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

type transactionEvent struct {
	Type        string             `json:"type"`
	Transaction domain.Transaction `json:"transaction"`
}

func (p *KafkaPublisher) PublishTransaction(ctx context.Context, tx domain.Transaction) error {
	message, err := json.Marshal(transactionEvent{Type: "bill_finalized", Transaction: tx})
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(tx.SequenceNumber, 10)),
		Value: message,
	})
}
