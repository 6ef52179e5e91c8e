package gmail

import (
	"context"
	"errors"
	"fmt"

	"github.com/Timmmy307/Gmail-unspamer/internal/domain"
	"github.com/Timmmy307/Gmail-unspamer/internal/provider"
	"github.com/Timmmy307/Gmail-unspamer/internal/store"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const userID = "me"

// metadataHeaders are the only headers ever requested. The message body stays
// on the server.
var metadataHeaders = []string{"From", "To", "Subject", "Date"}

// Client implements provider.Mailbox on the Gmail API.
type Client struct {
	tokenStore *store.KeyringTokenStore
	accountID  string
	service    *gmailapi.Service
}

// New creates a Gmail client for the given account. The service is
// initialized lazily from the stored token on first use.
func New(accountID string, tokenStore *store.KeyringTokenStore) *Client {
	return &Client{
		accountID:  accountID,
		tokenStore: tokenStore,
	}
}

// Connect runs the OAuth2 flow, saves the token, and initializes the service.
func (c *Client) Connect(ctx context.Context) error {
	token, err := authenticate(ctx)
	if err != nil {
		return fmt.Errorf("failed to authenticate gmail: %w", err)
	}

	if err := c.tokenStore.SaveToken(c.accountID, token); err != nil {
		return fmt.Errorf("failed to save gmail token: %w", err)
	}

	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}
	c.service = srv
	return nil
}

// Disconnect drops the stored token and the live service.
func (c *Client) Disconnect() error {
	c.service = nil
	if err := c.tokenStore.DeleteToken(c.accountID); err != nil {
		return fmt.Errorf("failed to delete gmail token: %w", err)
	}
	return nil
}

// ensureService initializes the Gmail service from the stored token if it is
// not already live. A missing token is an AuthError, not a network failure.
func (c *Client) ensureService(ctx context.Context) error {
	if c.service != nil {
		return nil
	}

	token, err := c.tokenStore.LoadToken(c.accountID)
	if err != nil {
		return &provider.AuthError{Reason: "no gmail token stored; run connect first"}
	}

	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}
	c.service = srv
	return nil
}

// ListMessageIDs searches the mailbox and returns matching ids in response
// order.
func (c *Client) ListMessageIDs(ctx context.Context, query string, max int) ([]string, error) {
	if err := c.ensureService(ctx); err != nil {
		return nil, err
	}

	call := c.service.Users.Messages.List(userID)
	if query != "" {
		call = call.Q(query)
	}
	if max > 0 {
		call = call.MaxResults(int64(max))
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("list messages", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessageMeta fetches headers and snippet for one message.
func (c *Client) GetMessageMeta(ctx context.Context, id string) (*domain.MessageMeta, error) {
	if err := c.ensureService(ctx); err != nil {
		return nil, err
	}

	msg, err := c.service.Users.Messages.Get(userID, id).
		Format("metadata").
		MetadataHeaders(metadataHeaders...).
		Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError(fmt.Sprintf("get message %s", id), err)
	}

	return mapMessage(msg), nil
}

// TrashMessage moves a message to trash. Trashing an already-trashed message
// is forwarded as-is; callers decide whether that is fatal.
func (c *Client) TrashMessage(ctx context.Context, id string) error {
	if err := c.ensureService(ctx); err != nil {
		return err
	}

	if _, err := c.service.Users.Messages.Trash(userID, id).Context(ctx).Do(); err != nil {
		return wrapAPIError(fmt.Sprintf("trash message %s", id), err)
	}
	return nil
}

// wrapAPIError converts googleapi errors into the shared taxonomy.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 401 || apiErr.Code == 403 {
			return &provider.AuthError{Reason: fmt.Sprintf("gmail rejected the token (%d)", apiErr.Code)}
		}
		return &provider.RemoteError{Status: apiErr.Code, Body: apiErr.Message}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// Compile-time interface compliance check.
var _ provider.Mailbox = (*Client)(nil)
