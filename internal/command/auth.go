package command

import (
	"context"
	"fmt"
	"strings"
)

// LoginCommand logs in and stores the session for later commands.
type LoginCommand struct {
	*Meta

	flagUser  string
	flagToken string
}

func (c *LoginCommand) Synopsis() string {
	return "Log in to a Semaphore server"
}

func (c *LoginCommand) Help() string {
	return `Usage: semaphore login [options]

  Logs in with a username and password, or checks and stores an API token.
  The session is written to the session file so later commands reuse it.
  The password is read from SEMAPHORE_PASSWORD or prompted for.` + c.Flags().Help()
}

func (c *LoginCommand) Flags() *FlagSet {
	f := c.commonFlags("login")
	f.StringVar(&c.flagUser, "user", "", "[SEMAPHORE_USER] Username or email")
	f.StringVar(&c.flagToken, "token", "", "API token to use instead of a password")
	return f
}

func (c *LoginCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, cfg, err := c.client()
	if err != nil {
		return c.fail(err)
	}

	if c.flagToken != "" {
		if err := client.UseAPIToken(ctx, c.flagToken); err != nil {
			return c.fail(err)
		}
	} else {
		user := c.flagUser
		if user == "" {
			user = cfg.Username
		}
		if user == "" {
			if user, err = c.UI.Ask("Username:"); err != nil {
				return c.fail(err)
			}
		}
		// The configured password belongs to the configured user.
		password := cfg.Password
		if cfg.Username != "" && user != cfg.Username {
			password = ""
		}
		if password == "" {
			if password, err = c.UI.AskSecret("Password:"); err != nil {
				return c.fail(err)
			}
		}
		if err := client.Login(ctx, strings.TrimSpace(user), password); err != nil {
			return c.fail(err)
		}
	}

	me, err := client.WhoAmI(ctx)
	if err != nil {
		if store := cfg.SessionStore(); store != nil {
			_ = store.DeleteSession(context.Background())
		}
		return c.fail(err)
	}

	c.UI.Info(fmt.Sprintf("Logged in to %s as %s", client.Host(), me.Username))
	if cfg.SessionStore() == nil {
		c.UI.Warn("Session persistence is disabled; the session ends with this command")
	}
	return 0
}

// LogoutCommand ends the stored session.
type LogoutCommand struct {
	*Meta
}

func (c *LogoutCommand) Synopsis() string {
	return "Log out and remove the stored session"
}

func (c *LogoutCommand) Help() string {
	return `Usage: semaphore logout [options]

  Ends the session on the server and deletes the session file.` + c.Flags().Help()
}

func (c *LogoutCommand) Flags() *FlagSet {
	return c.commonFlags("logout")
}

func (c *LogoutCommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, _, err := c.client()
	if err != nil {
		return c.fail(err)
	}
	if !client.IsAuthenticated() {
		c.UI.Info("Not logged in")
		return 0
	}
	if err := client.Logout(ctx); err != nil {
		// The local session is gone either way.
		c.Log.Warn("server logout failed", "error", err)
	}
	c.UI.Info("Logged out")
	return 0
}

// WhoAmICommand prints the current user.
type WhoAmICommand struct {
	*Meta
}

func (c *WhoAmICommand) Synopsis() string {
	return "Show the logged in user"
}

func (c *WhoAmICommand) Help() string {
	return `Usage: semaphore whoami [options]` + c.Flags().Help()
}

func (c *WhoAmICommand) Flags() *FlagSet {
	return c.commonFlags("whoami")
}

func (c *WhoAmICommand) Run(args []string) int {
	if !c.parse(c.Flags(), args) {
		return 1
	}
	ctx, cancel := signalContext()
	defer cancel()

	client, err := c.authedClient(ctx)
	if err != nil {
		return c.fail(err)
	}
	me, err := client.WhoAmI(ctx)
	if err != nil {
		return c.fail(err)
	}

	err = c.output(me, func() *table {
		t := &table{header: []string{"ID", "USERNAME", "NAME", "EMAIL", "ADMIN"}}
		t.add(me.ID, me.Username, me.Name, me.Email, me.Admin)
		return t
	})
	if err != nil {
		return c.fail(err)
	}
	return 0
}
