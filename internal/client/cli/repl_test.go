package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Me(ctx context.Context) error { f.calls = append(f.calls, "me"); return nil }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Health(ctx context.Context) error { f.calls = append(f.calls, "health"); return nil }
func (f *fakeExec) Version(ctx context.Context) error {
	f.calls = append(f.calls, "version")
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	lines := capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"me",
		"profile",
		"health",
		"version",
		"logout",
		"register",
		"foobar",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{"login", "me", "me", "health", "version", "logout", "register"}, exec.calls)
	assert.Contains(t, *lines, "Available commands: register, login, health, version, exit")
	assert.Contains(t, *lines, "Available commands: me, logout, health, version, exit")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("health\nversion"))

	assert.Equal(t, []string{"health", "version"}, exec.calls)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, rdr("health\n"))

	assert.Empty(t, exec.calls)
}

func TestRunREPL_PromptShowsStatus(t *testing.T) {
	lines := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "(alice@example.com)" }, rdr("exit\n"))

	assert.Equal(t, "authctl (alice@example.com)> ", (*lines)[0])
}
