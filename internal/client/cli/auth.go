package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/paramita-auth/internal/authpb"
	"github.com/dmitrijs2005/paramita-auth/internal/client/client"
	"github.com/dmitrijs2005/paramita-auth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. On success
// the client keeps the issued token, so the user is logged in right away.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	firstName, err := getSimpleText(a.reader, "Enter first name", a.out)
	if err != nil {
		return err
	}

	lastName, err := getSimpleText(a.reader, "Enter last name", a.out)
	if err != nil {
		return err
	}

	lang, err := getSimpleText(a.reader, "Enter language (en, ru, zh, ja, bo, sa; empty for en)", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Register(ctx, authpb.RegisterRequest{
		Email:              email,
		Password:           string(password),
		FirstName:          firstName,
		LastName:           lastName,
		LanguagePreference: lang,
	})
	if err != nil {
		a.reportError("Registration failed", err)
		return err
	}

	a.email = resp.User.Email
	fmt.Fprintf(a.out, "%s Welcome, %s!\n", resp.Message, resp.User.FirstName)
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		a.reportError("Login failed", err)
		return err
	}

	a.email = resp.User.Email
	fmt.Fprintf(a.out, "%s Token expires at %s\n", resp.Message, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Logout ends the session. The local token is dropped even when the server
// call fails.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err := a.api.Logout(ctx)
	a.email = ""
	if err != nil {
		a.reportError("Logout failed", err)
		return err
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) reportError(prefix string, err error) {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintf(a.out, "%s: server unavailable\n", prefix)
	default:
		fmt.Fprintf(a.out, "%s: %s\n", prefix, err.Error())
	}
	log.Printf("%s: %s", prefix, err.Error())
}
