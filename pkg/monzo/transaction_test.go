package monzo

import (
	"encoding/json"
	"testing"
)

func TestTransactionAmountMajor(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{amount: -510, want: "-5.1"},
		{amount: 10000, want: "100"},
		{amount: 1, want: "0.01"},
		{amount: 0, want: "0"},
	}

	for _, tt := range tests {
		tx := Transaction{Amount: tt.amount}
		if got := tx.AmountMajor().String(); got != tt.want {
			t.Fatalf("amount %d: expected %s, got %s", tt.amount, tt.want, got)
		}
	}

	tx := Transaction{Amount: -679}
	if got := tx.AmountMajor().StringFixed(2); got != "-6.79" {
		t.Fatalf("expected -6.79, got %s", got)
	}
}

func TestTransactionPotID(t *testing.T) {
	withPot := Transaction{Metadata: map[string]string{"pot_id": "pot_1"}}
	if withPot.PotID() != "pot_1" {
		t.Fatalf("expected pot_1, got %q", withPot.PotID())
	}

	var noMetadata Transaction
	if noMetadata.PotID() != "" {
		t.Fatalf("expected empty pot id, got %q", noMetadata.PotID())
	}
}

func TestTransactionDisplayName(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want string
	}{
		{name: "merchant", tx: Transaction{Merchant: &Merchant{ID: "m", Name: "Deli"}, CounterParty: &CounterParty{Name: "Bear"}}, want: "Deli"},
		{name: "counterparty", tx: Transaction{CounterParty: &CounterParty{Name: "Bear"}}, want: "Bear"},
		{name: "pot", tx: Transaction{Metadata: map[string]string{"pot_id": "pot_1"}}, want: "Pot Transaction"},
		{name: "unknown", tx: Transaction{Metadata: map[string]string{}}, want: "Unknown name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.DisplayName(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTransactionCounterPartyAbsentShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing", input: `{"id": "tx_1"}`},
		{name: "null", input: `{"id": "tx_1", "counterparty": null}`},
		{name: "empty object", input: `{"id": "tx_1", "counterparty": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tx Transaction
			if err := json.Unmarshal([]byte(tt.input), &tx); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.CounterParty != nil {
				t.Fatalf("expected no counterparty, got %+v", tx.CounterParty)
			}
		})
	}
}

func TestTransactionUnsettled(t *testing.T) {
	var tx Transaction
	if err := json.Unmarshal([]byte(`{"id": "tx_1", "settled": "", "amount_is_pending": true}`), &tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.IsSettled() {
		t.Fatal("expected unsettled transaction")
	}
	if !tx.AmountIsPending {
		t.Fatal("expected amount_is_pending to decode")
	}
}
