/**
 * @description
 * Scheduled transaction export. Each run lists the user's open accounts,
 * reads the recent transactions of each, and publishes them as events.
 *
 * Key features:
 * - Token upkeep: the Monzo client never refreshes itself, so the job swaps
 *   in a new client when the access token expires or is rejected.
 * - Isolation: a failing account is logged and skipped.
 * - Stateless: nothing is persisted; the lookback window overlaps between
 *   runs and consumers dedupe on the transaction id.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/transfa/monzo-bridge/internal/config"
	"github.com/transfa/monzo-bridge/internal/domain"
	"github.com/transfa/monzo-bridge/pkg/monzo"
	"github.com/transfa/monzo-bridge/pkg/rabbitmq"
)

// refreshLeeway refreshes slightly before the reported expiry.
const refreshLeeway = time.Minute

// MonzoAPI is the subset of monzo.Client the export job reads from.
type MonzoAPI interface {
	ListAccounts(ctx context.Context) ([]monzo.Account, error)
	ListTransactions(ctx context.Context, accountID string, expandMerchant bool, opts *monzo.PaginationOptions) ([]monzo.Transaction, error)
}

// ClientFactory builds a MonzoAPI for an access token.
type ClientFactory func(accessToken string) MonzoAPI

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (*monzo.AccessToken, error)
}

// Publisher sends events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, msg rabbitmq.Message) error
}

// Jobs contains the logic for the scheduled export.
type Jobs struct {
	newClient ClientFactory
	refresher TokenRefresher
	publisher Publisher
	logger    *slog.Logger
	config    config.ExporterConfig
	now       func() time.Time

	mu           sync.Mutex
	client       MonzoAPI
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// NewJobs creates a new Jobs runner seeded with the configured tokens.
func NewJobs(newClient ClientFactory, refresher TokenRefresher, publisher Publisher, logger *slog.Logger, cfg config.ExporterConfig) *Jobs {
	return &Jobs{
		newClient:    newClient,
		refresher:    refresher,
		publisher:    publisher,
		logger:       logger,
		config:       cfg,
		now:          time.Now,
		accessToken:  cfg.AccessToken,
		refreshToken: cfg.RefreshToken,
	}
}

// ExportTransactions is the cron entry point.
func (j *Jobs) ExportTransactions() {
	j.logger.Info("starting transaction export job")
	ctx := context.Background()

	published, err := j.Export(ctx)
	if err != nil {
		j.logger.Error("transaction export job failed", "error", err)
		return
	}

	j.logger.Info("transaction export job finished", "published", published)
}

// Export runs one export pass and returns the number of events published.
// Per-account failures are logged and do not fail the run.
func (j *Jobs) Export(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	client, err := j.ensureClient(ctx, false)
	if err != nil {
		return 0, err
	}

	accounts, err := client.ListAccounts(ctx)
	if monzo.IsUnauthorized(err) && j.refreshToken != "" {
		j.logger.Warn("access token rejected, refreshing")
		if client, err = j.ensureClient(ctx, true); err != nil {
			return 0, err
		}
		accounts, err = client.ListAccounts(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}

	now := j.now()
	since := now.Add(-time.Duration(j.config.ExportLookbackMinutes) * time.Minute)
	limit := j.config.ExportPageLimit
	opts := &monzo.PaginationOptions{SinceTime: &since, Limit: &limit}

	published := 0
	for _, account := range accounts {
		if account.Closed {
			j.logger.Info("skipping closed account", "account_id", account.ID)
			continue
		}

		n, err := j.exportAccount(ctx, client, account, opts, now)
		published += n
		if err != nil {
			j.logger.Error("failed to export account", "account_id", account.ID, "published", n, "error", err)
			continue
		}
		j.logger.Info("exported account", "account_id", account.ID, "published", n)
	}

	return published, nil
}

func (j *Jobs) exportAccount(ctx context.Context, client MonzoAPI, account monzo.Account, opts *monzo.PaginationOptions, now time.Time) (int, error) {
	transactions, err := client.ListTransactions(ctx, account.ID, true, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to list transactions: %w", err)
	}

	published := 0
	for i := range transactions {
		tx := &transactions[i]
		event := domain.TransactionExported{
			EventID:     uuid.NewString(),
			AccountID:   account.ID,
			AccountType: account.Type,
			Transaction: *tx,
			DisplayName: tx.DisplayName(),
			AmountMajor: tx.AmountMajor(),
			ExportedAt:  now.UTC(),
		}
		err := j.publisher.Publish(ctx, rabbitmq.Message{
			ID:         event.EventID,
			RoutingKey: event.RoutingKey(),
			Body:       event,
		})
		if err != nil {
			return published, fmt.Errorf("failed to publish transaction %s: %w", tx.ID, err)
		}
		published++
	}
	return published, nil
}

// ensureClient returns a client holding a usable token, refreshing first
// when the token is missing, near expiry, or force is set.
func (j *Jobs) ensureClient(ctx context.Context, force bool) (MonzoAPI, error) {
	expired := !j.expiresAt.IsZero() && !j.now().Before(j.expiresAt.Add(-refreshLeeway))
	if !force && !expired && j.accessToken != "" {
		if j.client == nil {
			j.client = j.newClient(j.accessToken)
		}
		return j.client, nil
	}

	if j.refreshToken == "" {
		return nil, errors.New("access token expired and no refresh token is configured")
	}

	token, err := j.refresher.RefreshAccessToken(ctx, j.refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh access token: %w", err)
	}

	j.accessToken = token.Value
	if token.RefreshToken != "" {
		j.refreshToken = token.RefreshToken
	}
	j.expiresAt = time.Time{}
	if token.ExpiresIn > 0 {
		j.expiresAt = token.ExpiresAt(j.now())
	}
	j.client = j.newClient(j.accessToken)
	j.logger.Info("refreshed monzo access token", "expires_at", j.expiresAt)

	return j.client, nil
}
