package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printFn is a test seam for user-facing output. In tests, replace it with a stub.
var printFn = fmt.Print

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF or "exit"/"quit".
//
//	Not logged in: help, register, login, exit | quit
//	Logged in:     help, me, refresh, logout, exit | quit
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("runauth %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printFn("Available commands: me, refresh, logout, exit\n")
			} else {
				printFn("Available commands: register, login, exit\n")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "me", "whoami":
			if !a.isLoggedIn() {
				printFn("Please login first\n")
				continue
			}
			_ = a.Me(ctx)

		case "refresh":
			if !a.isLoggedIn() {
				printFn("Please login first\n")
				continue
			}
			_ = a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printFn("Bye!\n")
			return

		default:
			printFn(fmt.Sprintf("Unknown command: %s\n", cmd))
		}
	}
}
