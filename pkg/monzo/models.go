/**
 * @description
 * Resource models returned by the Monzo API.
 *
 * JSON tags are the literal wire names. Several fields deliberately rename
 * (Balance.Value <-> "balance", User.ID <-> "user_id"), so do not rely on
 * naming conventions when adding fields.
 */
package monzo

import (
	"time"
)

// AccountType identifies the kind of account.
type AccountType string

const (
	AccountTypePrepaid     AccountType = "uk_prepaid"
	AccountTypeRetail      AccountType = "uk_retail"
	AccountTypeRetailJoint AccountType = "uk_retail_joint"
	AccountTypeBusiness    AccountType = "uk_business"
	AccountTypeLoan        AccountType = "uk_loan"
	AccountTypeFlex        AccountType = "uk_monzo_flex"
	AccountTypeRewards     AccountType = "uk_rewards"
)

// Account is a store of funds with a list of transactions.
// Owners may be empty for account types without direct ownership.
type Account struct {
	ID            string      `json:"id"`
	Description   string      `json:"description"`
	Created       Timestamp   `json:"created"`
	Type          AccountType `json:"type"`
	Currency      string      `json:"currency"`
	CountryCode   string      `json:"country_code"`
	SortCode      string      `json:"sort_code"`
	AccountNumber string      `json:"account_number"`
	Closed        bool        `json:"closed"`
	Owners        []User      `json:"owners"`
}

// User is an owner of an account.
type User struct {
	ID                 string `json:"user_id"`
	PreferredName      string `json:"preferred_name"`
	PreferredFirstName string `json:"preferred_first_name"`
}

// Balance holds an account's balance in minor units.
type Balance struct {
	Value                           int64  `json:"balance"`
	TotalBalance                    int64  `json:"total_balance"`
	BalanceIncludingFlexibleSavings int64  `json:"balance_including_flexible_savings"`
	Currency                        string `json:"currency"`
	SpendToday                      int64  `json:"spend_today"`
}

// CounterParty describes the payee of a bank transfer. UserID is an
// anonymous placeholder when the payee is not a Monzo user.
type CounterParty struct {
	AccountNumber string `json:"account_number,omitempty"`
	Name          string `json:"name,omitempty"`
	SortCode      string `json:"sort_code,omitempty"`
	UserID        string `json:"user_id,omitempty"`
}

// Pot is a savings pot attached to a current account.
type Pot struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Style               string              `json:"style"`
	Balance             int64               `json:"balance"`
	Currency            string              `json:"currency"`
	AssignedPermissions []map[string]string `json:"assigned_permissions"`
	CurrentAccountID    string              `json:"current_account_id"`
	Created             Timestamp           `json:"created"`
	Updated             Timestamp           `json:"updated"`
	RoundUp             bool                `json:"round_up"`
	Locked              bool                `json:"locked"`
	Deleted             bool                `json:"deleted"`
	GoalAmount          *int64              `json:"goal_amount,omitempty"`
}

// Webhook is a registered callback URL for an account.
type Webhook struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	URL       string `json:"url"`
}

// Attachment is an image registered against a transaction.
type Attachment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ExternalID string    `json:"external_id"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	Created    Timestamp `json:"created"`
}

// WhoAmI describes the current access token.
type WhoAmI struct {
	Authenticated bool   `json:"authenticated"`
	ClientID      string `json:"client_id"`
	UserID        string `json:"user_id"`
}

// AccessToken is the result of a token endpoint call.
type AccessToken struct {
	Value        string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"user_id"`
	ClientID     string `json:"client_id"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ExpiresAt returns the expiry instant for a token issued at issued.
func (t AccessToken) ExpiresAt(issued time.Time) time.Time {
	return issued.Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Response envelopes. The API wraps most payloads in a single named key.

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type transactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type potsResponse struct {
	Pots []Pot `json:"pots"`
}

type webhookResponse struct {
	Webhook Webhook `json:"webhook"`
}

type webhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

type attachmentResponse struct {
	Attachment Attachment `json:"attachment"`
}
