package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/foodshare/foodshare/internal/client/api"
	"github.com/foodshare/foodshare/internal/client/session"
	"github.com/foodshare/foodshare/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getChoice = GetChoice

// Register prompts for an email, a password, and the account role, then
// creates the account on the server.
//
// On success it prints a confirmation and returns nil. The password byte
// slice is wiped before returning. Any I/O or API error is returned
// unchanged.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	role, err := getChoice(a.reader, "Account role:",
		[]string{string(session.RoleDonor), string(session.RoleRecipient)},
		string(session.DefaultRole), os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, email, string(password), role); err != nil {
		a.log.Error(ctx, "registration failed", "error", err)
		return err
	}

	printlnFn("Account created, you can now log in.")
	return nil
}

// Login prompts for credentials and authenticates against the server.
//
// On success the session store persists the token, role and email, and the
// connectivity Mode flips to online. If the server is unreachable the
// previously persisted session (if any) keeps working in offline mode for
// local operations such as resuming a draft or browsing the cache.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		if api.IsUnavailable(err) {
			a.setMode(ModeOffline)
			a.log.Warn(ctx, "server unavailable, staying offline")
			if cur := a.session.Current(ctx); cur.Authenticated && cur.Email == email {
				printlnFn("Offline: using your saved session.")
				return nil
			}
			return err
		}
		a.log.Error(ctx, "login failed", "error", err)
		return err
	}

	role := session.Role(res.Role)
	a.session.Login(ctx, role, email, res.AccessToken)
	a.setMode(ModeOnline)
	printlnFn(fmt.Sprintf("Logged in as %s (%s)", email, role))
	return nil
}

// Logout clears the persisted session and drops the API token.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.api.SetToken("")
	printlnFn("Logged out.")
	return nil
}

// SwitchRole changes the active role context between donor and recipient.
// Admin cannot be self-assigned.
func (a *App) SwitchRole(ctx context.Context, role string) error {
	r := session.Role(role)
	if r != session.RoleDonor && r != session.RoleRecipient {
		printlnFn("Role must be donor or recipient")
		return common.ErrorForbidden
	}
	a.session.UpdateRole(ctx, r)
	printlnFn(fmt.Sprintf("Now acting as %s", r))
	return nil
}

// SetLanguage persists the preferred interface language code.
func (a *App) SetLanguage(ctx context.Context, lang string) error {
	a.session.SetLanguage(ctx, lang)
	printlnFn(fmt.Sprintf("Language set to %s", lang))
	return nil
}
