package monzo

import (
	"context"
	"net/url"
)

// ListAccounts returns the accounts owned by the authenticated user.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var resp accountsResponse
	if err := c.get(ctx, "list_accounts", "/accounts", &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// GetBalance returns the balance of an account.
func (c *Client) GetBalance(ctx context.Context, accountID string) (*Balance, error) {
	var balance Balance
	if err := c.get(ctx, "get_balance", "/balance?account_id="+url.QueryEscape(accountID), &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// WhoAmI returns information about the access token the client is bound to.
func (c *Client) WhoAmI(ctx context.Context) (*WhoAmI, error) {
	var who WhoAmI
	if err := c.get(ctx, "whoami", "/ping/whoami", &who); err != nil {
		return nil, err
	}
	return &who, nil
}
