package monzo

import (
	"context"
	"net/http"
	"net/url"
)

// CreateWebhook registers url to receive events for an account.
func (c *Client) CreateWebhook(ctx context.Context, accountID, callbackURL string) (*Webhook, error) {
	form := url.Values{}
	form.Set("account_id", accountID)
	form.Set("url", callbackURL)

	var resp webhookResponse
	if err := c.do(ctx, "create_webhook", http.MethodPost, "/webhooks", form, &resp); err != nil {
		return nil, err
	}
	return &resp.Webhook, nil
}

// ListWebhooks returns the webhooks registered for an account.
func (c *Client) ListWebhooks(ctx context.Context, accountID string) ([]Webhook, error) {
	var resp webhooksResponse
	if err := c.get(ctx, "list_webhooks", "/webhooks?account_id="+url.QueryEscape(accountID), &resp); err != nil {
		return nil, err
	}
	return resp.Webhooks, nil
}

// DeleteWebhook removes a webhook.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	return c.do(ctx, "delete_webhook", http.MethodDelete, "/webhooks/"+url.PathEscape(webhookID), nil, nil)
}

// CreateFeedItem posts an item to the account's feed. params holds the
// type-specific fields (title, image_url, body, ...); url is opened when
// the user taps the item.
func (c *Client) CreateFeedItem(ctx context.Context, accountID, itemType string, params map[string]string, itemURL string) error {
	form := url.Values{}
	form.Set("account_id", accountID)
	form.Set("type", itemType)
	form.Set("url", itemURL)
	for key, value := range params {
		form.Set("params["+key+"]", value)
	}

	return c.do(ctx, "create_feed_item", http.MethodPost, "/feed", form, nil)
}

// CreateAttachment registers an uploaded file against a transaction.
func (c *Client) CreateAttachment(ctx context.Context, externalID, fileURL, fileType string) (*Attachment, error) {
	form := url.Values{}
	form.Set("external_id", externalID)
	form.Set("file_type", fileType)
	form.Set("file_url", fileURL)

	var resp attachmentResponse
	if err := c.do(ctx, "create_attachment", http.MethodPost, "/attachment/register", form, &resp); err != nil {
		return nil, err
	}
	return &resp.Attachment, nil
}

// DeleteAttachment removes an attachment from its transaction.
func (c *Client) DeleteAttachment(ctx context.Context, attachmentID string) error {
	form := url.Values{}
	form.Set("id", attachmentID)

	return c.do(ctx, "delete_attachment", http.MethodPost, "/attachment/deregister", form, nil)
}
