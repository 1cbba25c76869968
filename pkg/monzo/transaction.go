package monzo

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

const potIDMetadataKey = "pot_id"

// Transaction is a movement of funds into or out of an account. Negative
// amounts are debits.
type Transaction struct {
	ID                         string            `json:"id"`
	AccountID                  string            `json:"account_id,omitempty"`
	UserID                     string            `json:"user_id,omitempty"`
	Amount                     int64             `json:"amount"`
	AccountBalance             int64             `json:"account_balance"`
	Currency                   string            `json:"currency"`
	LocalAmount                int64             `json:"local_amount"`
	LocalCurrency              string            `json:"local_currency,omitempty"`
	Description                string            `json:"description"`
	Category                   string            `json:"category"`
	DeclineReason              string            `json:"decline_reason,omitempty"`
	Created                    Timestamp         `json:"created"`
	Settled                    Timestamp         `json:"settled"`
	Updated                    Timestamp         `json:"updated"`
	Metadata                   map[string]string `json:"metadata"`
	Notes                      string            `json:"notes"`
	Merchant                   *Merchant         `json:"merchant"`
	CounterParty               *CounterParty     `json:"counterparty,omitempty"`
	Scheme                     string            `json:"scheme,omitempty"`
	DedupeID                   string            `json:"dedupe_id,omitempty"`
	Labels                     []string          `json:"labels,omitempty"`
	IsLoad                     bool              `json:"is_load"`
	IncludeInSpending          bool              `json:"include_in_spending"`
	AmountIsPending            bool              `json:"amount_is_pending"`
	Originator                 bool              `json:"originator"`
	CanBeExcludedFromBreakdown bool              `json:"can_be_excluded_from_breakdown"`
	CanBeMadeSubscription      bool              `json:"can_be_made_subscription"`
	CanSplitTheBill            bool              `json:"can_split_the_bill"`
	CanAddToTab                bool              `json:"can_add_to_tab"`
}

// UnmarshalJSON decodes a transaction, routing the merchant field through
// decodeMerchant and treating an empty counterparty object as absent.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := struct {
		*Alias
		Merchant     json.RawMessage `json:"merchant"`
		CounterParty json.RawMessage `json:"counterparty"`
	}{Alias: (*Alias)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	merchant, err := decodeMerchant(aux.Merchant)
	if err != nil {
		return err
	}
	t.Merchant = merchant

	t.CounterParty = nil
	if raw := bytes.TrimSpace(aux.CounterParty); len(raw) > 0 && raw[0] == '{' {
		var cp CounterParty
		if err := json.Unmarshal(raw, &cp); err != nil {
			return err
		}
		if cp != (CounterParty{}) {
			t.CounterParty = &cp
		}
	}

	return nil
}

// AmountMajor returns the amount in major currency units (pounds, euros).
func (t *Transaction) AmountMajor() decimal.Decimal {
	return decimal.New(t.Amount, -2)
}

// PotID returns the pot referenced by the transaction metadata, if any.
func (t *Transaction) PotID() string {
	return t.Metadata[potIDMetadataKey]
}

// IsSettled reports whether the transaction has a settlement time.
func (t *Transaction) IsSettled() bool {
	return !t.Settled.IsZero()
}

// DisplayName picks a human readable name for the transaction.
func (t *Transaction) DisplayName() string {
	switch {
	case t.Merchant != nil:
		return t.Merchant.Name
	case t.CounterParty != nil:
		return t.CounterParty.Name
	}
	if _, ok := t.Metadata[potIDMetadataKey]; ok {
		return "Pot Transaction"
	}
	return "Unknown name"
}
