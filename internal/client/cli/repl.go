package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	currentRole() string
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	SwitchRole(ctx context.Context, role string) error
	SetLanguage(ctx context.Context, lang string) error
	NewListing(ctx context.Context) error
	Browse(ctx context.Context, category string) error
	Show(ctx context.Context, id string) error
	MyListings(ctx context.Context) error
	Request(ctx context.Context, listingID string) error
	Requests(ctx context.Context) error
	Resolve(ctx context.Context, id, action string) error
	Inbox(ctx context.Context) error
	Read(ctx context.Context, id string) error
	Send(ctx context.Context, listingID string) error
	Stats(ctx context.Context) error
	Users(ctx context.Context) error
	Moderate(ctx context.Context, id, action string) error
}

func helpFor(a execIface) string {
	if !a.isLoggedIn() {
		return "Available commands: register, login, browse, show, exit"
	}
	common := "browse, show, inbox, read, send, role, language, logout, exit"
	switch a.currentRole() {
	case "donor":
		return "Available commands: new, mine, requests, resolve, " + common
	case "admin":
		return "Available commands: stats, users, moderate, " + common
	default:
		return "Available commands: request, " + common
	}
}

// runREPL starts a simple read-eval-print loop for the FoodShare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The command set depends on the session: unauthenticated users can only
// register, login and browse; donors additionally create listings and
// handle pickup requests; recipients request pickups; admins see platform
// statistics and moderate listings.
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fs> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpFor(a))

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "role":
			if len(args) == 0 {
				printlnFn("Usage: role <donor|recipient>")
				continue
			}
			_ = a.SwitchRole(ctx, args[0])

		case "language":
			if len(args) == 0 {
				printlnFn("Usage: language <code>")
				continue
			}
			_ = a.SetLanguage(ctx, args[0])

		case "new":
			_ = a.NewListing(ctx)

		case "b", "browse":
			category := ""
			if len(args) > 0 {
				category = args[0]
			}
			_ = a.Browse(ctx, category)

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <listing-id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "mine":
			_ = a.MyListings(ctx)

		case "request":
			if len(args) == 0 {
				printlnFn("Usage: request <listing-id>")
				continue
			}
			_ = a.Request(ctx, args[0])

		case "requests":
			_ = a.Requests(ctx)

		case "resolve":
			if len(args) < 2 {
				printlnFn("Usage: resolve <request-id> <approve|decline|complete>")
				continue
			}
			_ = a.Resolve(ctx, args[0], args[1])

		case "inbox":
			_ = a.Inbox(ctx)

		case "read":
			if len(args) == 0 {
				printlnFn("Usage: read <conversation-id>")
				continue
			}
			_ = a.Read(ctx, args[0])

		case "send":
			if len(args) == 0 {
				printlnFn("Usage: send <listing-id>")
				continue
			}
			_ = a.Send(ctx, args[0])

		case "stats":
			_ = a.Stats(ctx)

		case "users":
			_ = a.Users(ctx)

		case "moderate":
			if len(args) < 2 {
				printlnFn("Usage: moderate <listing-id> <flag|remove|restore>")
				continue
			}
			_ = a.Moderate(ctx, args[0], args[1])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
