package monzo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListPots returns the pots attached to a current account.
func (c *Client) ListPots(ctx context.Context, currentAccountID string) ([]Pot, error) {
	var resp potsResponse
	if err := c.get(ctx, "list_pots", "/pots?current_account_id="+url.QueryEscape(currentAccountID), &resp); err != nil {
		return nil, err
	}
	return resp.Pots, nil
}

// DepositIntoPot moves amount (minor units) from sourceAccountID into a pot.
// dedupeID is forwarded verbatim; repeating a call with the same id is
// collapsed by the server, not by the client.
func (c *Client) DepositIntoPot(ctx context.Context, potID, sourceAccountID string, amount int64, dedupeID string) (*Pot, error) {
	form := url.Values{}
	form.Set("source_account_id", sourceAccountID)
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("dedupe_id", dedupeID)

	return c.movePot(ctx, "deposit_into_pot", "/pots/"+url.PathEscape(potID)+"/deposit", form)
}

// WithdrawFromPot moves amount (minor units) out of a pot into
// destinationAccountID. See DepositIntoPot for dedupeID semantics.
func (c *Client) WithdrawFromPot(ctx context.Context, potID, destinationAccountID string, amount int64, dedupeID string) (*Pot, error) {
	form := url.Values{}
	form.Set("destination_account_id", destinationAccountID)
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("dedupe_id", dedupeID)

	return c.movePot(ctx, "withdraw_from_pot", "/pots/"+url.PathEscape(potID)+"/withdraw", form)
}

func (c *Client) movePot(ctx context.Context, op, requestURI string, form url.Values) (*Pot, error) {
	var pot Pot
	if err := c.do(ctx, op, http.MethodPut, requestURI, form, &pot); err != nil {
		return nil, err
	}
	return &pot, nil
}
