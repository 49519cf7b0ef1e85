package semaphore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Token is an API token belonging to the current user.
type Token struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Expired bool      `json:"expired"`
	UserID  int       `json:"user_id"`
}

// ListTokens returns all API tokens of the current user.
func (c *Client) ListTokens(ctx context.Context) ([]Token, error) {
	data, err := c.get(ctx, "/user/tokens")
	if err != nil {
		return nil, err
	}
	return unmarshalList[Token](data, "token list")
}

// CreateToken creates a new API token for the current user.
func (c *Client) CreateToken(ctx context.Context) (*Token, error) {
	data, err := c.post(ctx, "/user/tokens", nil)
	if err != nil {
		return nil, err
	}
	return unmarshalResponse[Token](data, "created token")
}

// DeleteToken deletes an API token. A token the server no longer knows
// (already expired and purged) is treated as deleted.
func (c *Client) DeleteToken(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return ErrEmptyTokenID
	}

	_, err := c.delete(ctx, "/user/tokens/"+url.PathEscape(tokenID))
	if IsNotFound(err) {
		return nil
	}
	return err
}

// PruneExpiredTokens deletes every expired token of the current user and
// returns how many were deleted. Every deletion is attempted; failures are
// returned together.
func (c *Client) PruneExpiredTokens(ctx context.Context) (int, error) {
	tokens, err := c.ListTokens(ctx)
	if err != nil {
		return 0, err
	}

	var result *multierror.Error
	deleted := 0
	for _, tok := range tokens {
		if !tok.Expired {
			continue
		}
		if err := c.DeleteToken(ctx, tok.ID); err != nil {
			result = multierror.Append(result, fmt.Errorf("token %s: %w", tok.ID, err))
			continue
		}
		deleted++
	}

	return deleted, result.ErrorOrNil()
}
