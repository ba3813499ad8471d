package service

import (
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"

	"billing-counter/billing-svc/internal/domain"
)

type QRGenerator interface {
	Generate(tx domain.Transaction) ([]byte, error)
}

// DefaultQRGenerator encodes a bill reference for the printed receipt.
type DefaultQRGenerator struct {
	CounterName string
}

func (g DefaultQRGenerator) Generate(tx domain.Transaction) ([]byte, error) {
	payload := fmt.Sprintf("%s|bill:%d|total:%.2f|%s",
		g.CounterName, tx.SequenceNumber, tx.GrandTotal, tx.FinalizedAt.Format(time.RFC3339))
	return qrcode.Encode(payload, qrcode.Medium, 256)
}
