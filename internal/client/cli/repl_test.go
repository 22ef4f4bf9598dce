package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	logged bool
	calls  []string
}

func (f *fakeExec) isLoggedIn() bool { return f.logged }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.logged = true
	return nil
}
func (f *fakeExec) Me(context.Context) error {
	f.calls = append(f.calls, "me")
	return nil
}
func (f *fakeExec) Refresh(context.Context) error {
	f.calls = append(f.calls, "refresh")
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.logged = false
	return nil
}

func capturePrint(t *testing.T) *strings.Builder {
	t.Helper()
	var sb strings.Builder
	orig := printFn
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&sb, a...) }
	t.Cleanup(func() { printFn = orig })
	return &sb
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrint(t)
	f := &fakeExec{}

	input := strings.Join([]string{
		"me",
		"register",
		"login",
		"",
		"me",
		"whoami",
		"refresh",
		"logout",
		"refresh",
		"exit",
		"me",
	}, "\n") + "\n"

	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader(input)))

	want := []string{"register", "login", "me", "me", "refresh", "logout"}
	if strings.Join(f.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
	if strings.Count(out.String(), "Please login first") != 2 {
		t.Fatalf("expected two login prompts, output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Bye!") {
		t.Fatalf("expected goodbye, output: %q", out.String())
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	out := capturePrint(t)
	f := &fakeExec{}

	input := "help\nfoo\nlogin\nhelp\nquit\n"
	runREPL(context.Background(), f, func() string { return "(x)" }, bufio.NewReader(strings.NewReader(input)))

	got := out.String()
	for _, want := range []string{
		"runauth (x)> ",
		"Available commands: register, login, exit",
		"Unknown command: foo",
		"Available commands: me, refresh, logout, exit",
		"Bye!",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q does not contain %q", got, want)
		}
	}
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrint(t)
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewReader(strings.NewReader("register")))
	if len(f.calls) != 1 || f.calls[0] != "register" {
		t.Fatalf("calls = %v", f.calls)
	}
}
