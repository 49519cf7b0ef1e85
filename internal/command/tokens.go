package command

import (
	"fmt"
)

// TokensCommand lists the current user's API tokens.
type TokensCommand struct {
	*Meta
}

func (c *TokensCommand) Synopsis() string {
	return "Manage API tokens"
}

func (c *TokensCommand) Help() string {
	return `Usage: semaphore tokens <subcommand> [options]

  Lists the API tokens of the current user when run without a subcommand.

Subcommands:

  create    Create an API token
  delete    Delete an API token
  prune     Delete every expired API token` + c.Flags().Help()
}

func (c *TokensCommand) Flags() *FlagSet {
	return c.commonFlags("tokens")
}

func (c *TokensCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	tokens, err := client.ListTokens(ctx)
	if err != nil {
		return c.fail(err)
	}

	err = c.output(tokens, func() *table {
		t := &table{header: []string{"ID", "CREATED", "EXPIRED"}}
		for _, tok := range tokens {
			t.add(tok.ID, tok.Created, tok.Expired)
		}
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	return 0
}

// TokensCreateCommand creates an API token.
type TokensCreateCommand struct {
	*Meta
}

func (c *TokensCreateCommand) Synopsis() string {
	return "Create an API token"
}

func (c *TokensCreateCommand) Help() string {
	return `Usage: semaphore tokens create [options]

  Creates an API token and prints it. The token can be stored as
  SEMAPHORE_API_TOKEN or passed to "semaphore login -token".` + c.Flags().Help()
}

func (c *TokensCreateCommand) Flags() *FlagSet {
	return c.commonFlags("tokens create")
}

func (c *TokensCreateCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	token, err := client.CreateToken(ctx)
	if err != nil {
		return c.fail(err)
	}

	err = c.output(token, func() *table {
		t := &table{header: []string{"ID", "CREATED"}}
		t.add(token.ID, token.Created)
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	return 0
}

// TokensDeleteCommand deletes an API token.
type TokensDeleteCommand struct {
	*Meta

	flagID string
}

func (c *TokensDeleteCommand) Synopsis() string {
	return "Delete an API token"
}

func (c *TokensDeleteCommand) Help() string {
	return `Usage: semaphore tokens delete -id=<token> [options]` + c.Flags().Help()
}

func (c *TokensDeleteCommand) Flags() *FlagSet {
	f := c.commonFlags("tokens delete")
	f.StringVar(&c.flagID, "id", "", "(Required) Token ID")
	return f
}

func (c *TokensDeleteCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	if c.flagID == "" {
		return c.fail(fmt.Errorf("-id is required"))
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	if err := client.DeleteToken(ctx, c.flagID); err != nil {
		return c.fail(err)
	}
	c.UI.Info("Token deleted")
	return 0
}

// TokensPruneCommand deletes expired API tokens.
type TokensPruneCommand struct {
	*Meta
}

func (c *TokensPruneCommand) Synopsis() string {
	return "Delete every expired API token"
}

func (c *TokensPruneCommand) Help() string {
	return `Usage: semaphore tokens prune [options]` + c.Flags().Help()
}

func (c *TokensPruneCommand) Flags() *FlagSet {
	return c.commonFlags("tokens prune")
}

func (c *TokensPruneCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	n, err := client.PruneExpiredTokens(ctx)
	if n > 0 {
		c.UI.Info(fmt.Sprintf("Deleted %d expired token(s)", n))
	}
	if err != nil {
		return c.fail(err)
	}
	if n == 0 {
		c.UI.Info("No expired tokens")
	}
	return 0
}
