package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/transfa/monzo-bridge/pkg/monzo"
)

// TransactionExported is broadcast for every transaction the exporter reads.
// The same transaction may be exported more than once across runs; consumers
// dedupe on Transaction.ID.
type TransactionExported struct {
	EventID     string            `json:"event_id"`
	AccountID   string            `json:"account_id"`
	AccountType monzo.AccountType `json:"account_type"`
	Transaction monzo.Transaction `json:"transaction"`
	DisplayName string            `json:"display_name"`
	AmountMajor decimal.Decimal   `json:"amount_major"`
	ExportedAt  time.Time         `json:"exported_at"`
}

// RoutingKey returns the topic routing key for the event.
func (e TransactionExported) RoutingKey() string {
	return "transaction." + string(e.AccountType)
}
