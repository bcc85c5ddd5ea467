package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
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
	Me(ctx context.Context) error
	Logout(ctx context.Context) error
	Health(ctx context.Context) error
	Version(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until EOF,
// "exit" or "quit". Command prompts read from the same reader, so a single
// buffered stream serves both.
//
//	Not logged in:  register, login, health, version, help, exit
//	Logged in:      me, logout, health, version, help, exit
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("authctl%s> ", prefixed(statusFn())))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn("Available commands: me, logout, health, version, exit")
			} else {
				printlnFn("Available commands: register, login, health, version, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "me", "profile":
			_ = a.Me(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "health":
			_ = a.Health(ctx)

		case "version":
			_ = a.Version(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func prefixed(status string) string {
	if status == "" {
		return ""
	}
	return " " + status
}
