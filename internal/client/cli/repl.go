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
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Drafts(ctx context.Context) error
	Show(ctx context.Context, id string) error
	New(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Search(ctx context.Context) error
	Publish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// runREPL starts a simple read–eval–print loop for the Jotter CLI.
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
//	  - list           — list published entries
//	  - drafts         — list drafts
//	  - show <id>      — print a single entry
//	  - new            — open an editor on a new draft (autosaves)
//	  - edit <id>      — open an editor on an existing document
//	  - search         — interactive live search
//	  - publish <id>   — publish a draft
//	  - delete <id>    — delete an entry or draft
//	  - whoami         — show the current account
//	  - logout         — log out
//	  - exit | quit    — leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("jot %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: list, drafts, show <id>, new, edit <id>, search, publish <id>, delete <id>, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "list", "l":
			err = a.List(ctx)

		case "drafts":
			err = a.Drafts(ctx)

		case "show":
			err = a.Show(ctx, arg)

		case "new":
			err = a.New(ctx)

		case "edit":
			err = a.Edit(ctx, arg)

		case "search":
			err = a.Search(ctx)

		case "publish":
			err = a.Publish(ctx, arg)

		case "delete":
			err = a.Delete(ctx, arg)

		case "exit", "quit":
			return

		default:
			printlnFn("Unknown command: " + cmd)
		}

		if err != nil {
			printlnFn("Error: " + err.Error())
		}
	}
}
