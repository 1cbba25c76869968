package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/transfa/monzo-bridge/pkg/monzo"
)

func TestTransactionExportedRoutingKey(t *testing.T) {
	e := TransactionExported{AccountType: monzo.AccountTypeRetailJoint}
	if got := e.RoutingKey(); got != "transaction.uk_retail_joint" {
		t.Fatalf("expected transaction.uk_retail_joint, got %q", got)
	}
}

func TestTransactionExportedJSON(t *testing.T) {
	e := TransactionExported{
		EventID:     "evt_1",
		AccountID:   "acc_1",
		AccountType: monzo.AccountTypeRetail,
		Transaction: monzo.Transaction{ID: "tx_1", Amount: -510},
		DisplayName: "Deli",
		AmountMajor: decimal.New(-510, -2),
		ExportedAt:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal returned error: %v", err)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(body, &shape); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := string(shape["amount_major"]); got != `"-5.1"` {
		t.Fatalf("expected amount_major \"-5.1\", got %s", got)
	}
	if got := string(shape["exported_at"]); got != `"2024-03-01T12:00:00Z"` {
		t.Fatalf("unexpected exported_at %s", got)
	}
	for _, key := range []string{"event_id", "account_id", "account_type", "transaction", "display_name"} {
		if _, ok := shape[key]; !ok {
			t.Fatalf("expected key %q in %s", key, body)
		}
	}
}
