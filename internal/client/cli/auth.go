package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/runauth/internal/client/client"
	"github.com/dmitrijs2005/runauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getNewPassword = GetNewPassword

// Register prompts for a username and password and creates the account.
// It does not log in.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.promptCredentials(getNewPassword)
	if err != nil {
		fmt.Fprintf(a.out, "Registration aborted: %s\n", err)
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.authService.Register(ctx, userName, password)
	if err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", describe(err))
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s)\n", acc.UserName, acc.ID)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.promptCredentials(getPassword)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, userName, password); err != nil {
		fmt.Fprintf(a.out, "Login failed: %s\n", describe(err))
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", userName)
	return nil
}

// Me prints the current user's profile.
func (a *App) Me(ctx context.Context) error {
	p, err := a.authService.Me(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Cannot fetch profile: %s\n", describe(err))
		return err
	}

	fmt.Fprintf(a.out, "id:         %s\n", p.ID)
	fmt.Fprintf(a.out, "username:   %s\n", p.UserName)
	fmt.Fprintf(a.out, "created at: %s\n", p.CreatedAt.Local().Format(time.RFC3339))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.authService.Refresh(ctx); err != nil {
		fmt.Fprintf(a.out, "Refresh failed: %s\n", describe(err))
		return err
	}
	fmt.Fprintln(a.out, "Access token refreshed")
	return nil
}

// Logout forgets the session locally. The server keeps the refresh token
// until the next login replaces it.
func (a *App) Logout(ctx context.Context) error {
	a.authService.Logout()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) promptCredentials(readPw func(io.Writer) ([]byte, error)) (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}

	password, err := readPw(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// describe prefers the server's own message over the wrapped error text.
func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
