package monzo

import (
	"context"
	"net/http"
	"net/url"
)

const expandMerchantQuery = "expand[]=merchant"

// ListTransactions returns the transactions of an account. expandMerchant
// asks the server to embed full merchant records instead of bare ids; opts
// is passed through as the pagination fragment when non-nil.
func (c *Client) ListTransactions(ctx context.Context, accountID string, expandMerchant bool, opts *PaginationOptions) ([]Transaction, error) {
	requestURI := "/transactions?account_id=" + url.QueryEscape(accountID)
	if expandMerchant {
		requestURI += "&" + expandMerchantQuery
	}
	if opts != nil {
		requestURI += opts.String()
	}

	var resp transactionsResponse
	if err := c.get(ctx, "list_transactions", requestURI, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// GetTransaction returns a single transaction.
func (c *Client) GetTransaction(ctx context.Context, transactionID string, expandMerchant bool) (*Transaction, error) {
	requestURI := "/transactions/" + url.PathEscape(transactionID)
	if expandMerchant {
		requestURI += "?" + expandMerchantQuery
	}

	var resp transactionResponse
	if err := c.get(ctx, "get_transaction", requestURI, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}

// AnnotateTransaction stores metadata against a transaction. Entries with an
// empty value are sent too; the API uses them to delete a key.
func (c *Client) AnnotateTransaction(ctx context.Context, transactionID string, metadata map[string]string) (*Transaction, error) {
	form := url.Values{}
	for key, value := range metadata {
		form.Set("metadata["+key+"]", value)
	}

	var resp transactionResponse
	if err := c.do(ctx, "annotate_transaction", http.MethodPatch, "/transactions/"+url.PathEscape(transactionID), form, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}
