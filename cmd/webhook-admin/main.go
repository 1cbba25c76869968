/**
 * @description
 * Operator script for managing Monzo webhooks on an account.
 *
 * Usage:
 *   go run ./cmd/webhook-admin list <account-id>
 *   go run ./cmd/webhook-admin create <account-id> <url>
 *   go run ./cmd/webhook-admin delete <account-id> <webhook-id>
 *
 * Deleting asks for confirmation after showing the webhook.
 *
 * @dependencies
 * - Environment variables: MONZO_ACCESS_TOKEN, MONZO_API_BASE_URL (optional)
 */
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/transfa/monzo-bridge/pkg/monzo"
)

const usage = `Usage:
  webhook-admin list <account-id>
  webhook-admin create <account-id> <url>
  webhook-admin delete <account-id> <webhook-id>`

var errUsage = errors.New(usage)

// callTimeout bounds each API call. The confirmation prompt is not timed.
var callTimeout = 30 * time.Second

// webhookAPI is the subset of monzo.Client the script drives.
type webhookAPI interface {
	ListWebhooks(ctx context.Context, accountID string) ([]monzo.Webhook, error)
	CreateWebhook(ctx context.Context, accountID, callbackURL string) (*monzo.Webhook, error)
	DeleteWebhook(ctx context.Context, webhookID string) error
}

func main() {
	_ = godotenv.Load("../.env")
	_ = godotenv.Load(".env")

	token := os.Getenv("MONZO_ACCESS_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "MONZO_ACCESS_TOKEN environment variable is required")
		os.Exit(1)
	}

	var opts []monzo.Option
	if baseURL := os.Getenv("MONZO_API_BASE_URL"); baseURL != "" {
		opts = append(opts, monzo.WithBaseURL(baseURL))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, monzo.NewClient(token, opts...), os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api webhookAPI, args []string, in io.Reader, out io.Writer) error {
	if len(args) < 2 {
		return errUsage
	}

	switch cmd, accountID := args[0], args[1]; cmd {
	case "list":
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		hooks, err := api.ListWebhooks(callCtx, accountID)
		if err != nil {
			return fmt.Errorf("failed to list webhooks: %w", err)
		}
		if len(hooks) == 0 {
			fmt.Fprintf(out, "No webhooks registered for %s\n", accountID)
			return nil
		}
		for _, h := range hooks {
			fmt.Fprintf(out, "%s\t%s\n", h.ID, h.URL)
		}
		return nil

	case "create":
		if len(args) != 3 {
			return errUsage
		}
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()
		hook, err := api.CreateWebhook(callCtx, accountID, args[2])
		if err != nil {
			return fmt.Errorf("failed to create webhook: %w", err)
		}
		fmt.Fprintf(out, "Registered webhook %s -> %s\n", hook.ID, hook.URL)
		return nil

	case "delete":
		if len(args) != 3 {
			return errUsage
		}
		return deleteWebhook(ctx, api, accountID, args[2], in, out)

	default:
		return errUsage
	}
}

func deleteWebhook(ctx context.Context, api webhookAPI, accountID, webhookID string, in io.Reader, out io.Writer) error {
	listCtx, cancelList := context.WithTimeout(ctx, callTimeout)
	defer cancelList()
	hooks, err := api.ListWebhooks(listCtx, accountID)
	if err != nil {
		return fmt.Errorf("failed to list webhooks: %w", err)
	}

	var target *monzo.Webhook
	for i := range hooks {
		if hooks[i].ID == webhookID {
			target = &hooks[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("webhook %s is not registered on account %s", webhookID, accountID)
	}

	fmt.Fprintf(out, "Webhook Details:\n")
	fmt.Fprintf(out, "  ID: %s\n", target.ID)
	fmt.Fprintf(out, "  Account: %s\n", target.AccountID)
	fmt.Fprintf(out, "  URL: %s\n", target.URL)

	fmt.Fprintf(out, "\nAre you sure you want to delete this webhook? (yes/no): ")
	answer, _ := bufio.NewReader(in).ReadString('\n')
	if strings.TrimSpace(answer) != "yes" {
		fmt.Fprintln(out, "Deletion cancelled.")
		return nil
	}

	deleteCtx, cancelDelete := context.WithTimeout(ctx, callTimeout)
	defer cancelDelete()
	if err := api.DeleteWebhook(deleteCtx, webhookID); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	fmt.Fprintf(out, "Deleted webhook %s\n", webhookID)
	return nil
}
