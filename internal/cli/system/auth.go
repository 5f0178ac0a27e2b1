package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitstreak/internal/cli"
	"github.com/julianstephens/habitstreak/internal/constants"
	"github.com/julianstephens/habitstreak/internal/keyring"
	"github.com/julianstephens/habitstreak/internal/logger"
)

var errNoAPI = errors.New("this command needs a remote backend; pass --api-url or set HABITSTREAK_API_URL")

type LoginCmd struct {
	Username string `help:"Account username or email." short:"u"`
	Password string `help:"Account password (prompted when omitted)." env:"HABITSTREAK_PASSWORD"`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if ctx.API == nil {
		return errNoAPI
	}

	if c.Username == "" || c.Password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Value(&c.Username).
					Validate(notEmpty("username")),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&c.Password).
					Validate(notEmpty("password")),
			),
		).WithTheme(huh.ThemeDracula())
		if err := form.RunWithContext(ctx.Ctx); err != nil {
			return err
		}
	}

	token, err := ctx.API.Login(ctx.Ctx, strings.TrimSpace(c.Username), c.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := keyring.SetToken(token); err != nil {
		return fmt.Errorf("failed to store access token in keyring: %w", err)
	}

	userID, err := ctx.API.Me(ctx.Ctx)
	if err != nil {
		logger.Warn("Could not confirm identity after login", "error", err)
		fmt.Println("✓ Logged in")
		return nil
	}
	logger.Info("Logged in", "user", userID)
	fmt.Printf("✓ Logged in as user %s\n", userID)
	return nil
}

type RegisterCmd struct {
	Username string `help:"Account username." short:"u"`
	Email    string `help:"Account email." short:"e"`
	Password string `help:"Account password (prompted when omitted)." env:"HABITSTREAK_PASSWORD"`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	if ctx.API == nil {
		return errNoAPI
	}

	if c.Username == "" || c.Email == "" || c.Password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Value(&c.Username).
					Validate(notEmpty("username")),
				huh.NewInput().
					Title("Email").
					Value(&c.Email).
					Validate(validEmail),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&c.Password).
					Validate(notEmpty("password")),
			),
		).WithTheme(huh.ThemeDracula())
		if err := form.RunWithContext(ctx.Ctx); err != nil {
			return err
		}
	}

	email := strings.TrimSpace(c.Email)
	if err := validEmail(email); err != nil {
		return err
	}

	token, err := ctx.API.Register(ctx.Ctx, strings.TrimSpace(c.Username), email, c.Password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := keyring.SetToken(token); err != nil {
		return fmt.Errorf("failed to store access token in keyring: %w", err)
	}

	logger.Info("Registered account", "username", c.Username)
	fmt.Printf("✓ Registered and logged in as %s\n", strings.TrimSpace(c.Username))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if ctx.API != nil {
		if _, err := keyring.GetToken(); err == nil {
			if err := ctx.API.Logout(ctx.Ctx); err != nil {
				logger.Warn("Server logout failed", "error", err)
			}
		}
	}

	if err := keyring.DeleteToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to remove access token from keyring: %w", err)
	}
	fmt.Printf("✓ Logged out of %s\n", constants.AppName)
	return nil
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func validEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("email cannot be empty")
	}
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 || strings.Contains(s[at+1:], "@") {
		return fmt.Errorf("%q is not a valid email address", s)
	}
	return nil
}
