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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	List(ctx context.Context) error
	Create(ctx context.Context) error
	Select(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Summary(ctx context.Context, args []string) error
	Assets(ctx context.Context, args []string) error
	AddAsset(ctx context.Context) error
	UpdateAsset(ctx context.Context, args []string) error
	RemoveAsset(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the folio CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - whoami         — show the signed-in profile
//	  - list           — list portfolios
//	  - create         — create a portfolio
//	  - select <id>    — select a portfolio
//	  - update <id>    — update a portfolio
//	  - delete <id>    — delete a portfolio
//	  - summary [id]   — valuation summary (defaults to the selection)
//	  - assets [id]    — list holdings (defaults to the selection)
//	  - addasset       — add a holding to the selected portfolio
//	  - updateasset <id> — update a holding of the selected portfolio
//	  - removeasset <id> — remove a holding from the selected portfolio
//	  - profile        — update the account profile
//	  - delete-account — delete the account
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("folio %s> ", statusFn()))
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
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, (l)ist, create, select, update, delete, summary, assets, addasset, updateasset, removeasset, profile, delete-account, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "create":
			_ = a.Create(ctx)

		case "select":
			_ = a.Select(ctx, args)

		case "update":
			_ = a.Update(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "summary":
			_ = a.Summary(ctx, args)

		case "assets":
			_ = a.Assets(ctx, args)

		case "addasset":
			_ = a.AddAsset(ctx)

		case "updateasset":
			_ = a.UpdateAsset(ctx, args)

		case "removeasset":
			_ = a.RemoveAsset(ctx, args)

		case "profile":
			_ = a.UpdateProfile(ctx)

		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
