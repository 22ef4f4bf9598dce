package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/runauth/internal/client/client"
	"github.com/dmitrijs2005/runauth/internal/client/models"
)

func stubInputs(t *testing.T, username string, password []byte) func() {
	t.Helper()
	origST, origGP, origNP := getSimpleText, getPassword, getNewPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	getNewPassword = func(_ io.Writer) ([]byte, error) { return append([]byte(nil), password...), nil }
	return func() {
		getSimpleText = origST
		getPassword = origGP
		getNewPassword = origNP
	}
}

type fakeAuth struct {
	regUser string
	regPass []byte
	regAcc  *models.Account
	regErr  error

	loginUser string
	loginPass []byte
	loginErr  error

	profile *models.Profile
	meErr   error

	refreshErr error

	loggedOut bool
	userName  string
}

func (f *fakeAuth) Register(_ context.Context, user string, pass []byte) (*models.Account, error) {
	f.regUser, f.regPass = user, append([]byte(nil), pass...)
	return f.regAcc, f.regErr
}
func (f *fakeAuth) Login(_ context.Context, user string, pass []byte) error {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	if f.loginErr == nil {
		f.userName = user
	}
	return f.loginErr
}
func (f *fakeAuth) Me(context.Context) (*models.Profile, error) { return f.profile, f.meErr }
func (f *fakeAuth) Refresh(context.Context) error              { return f.refreshErr }
func (f *fakeAuth) Ping(context.Context) error                 { return nil }
func (f *fakeAuth) Logout()                                    { f.loggedOut = true; f.userName = "" }
func (f *fakeAuth) IsLoggedIn() bool                           { return f.userName != "" }
func (f *fakeAuth) UserName() string                           { return f.userName }

func newTestApp(f *fakeAuth) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{authService: f, out: &out}, &out
}

func TestRegister_Success(t *testing.T) {
	f := &fakeAuth{regAcc: &models.Account{ID: "42", UserName: "alice"}}
	a, out := newTestApp(f)

	restore := stubInputs(t, "alice", []byte("secret"))
	defer restore()

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if f.regUser != "alice" || string(f.regPass) != "secret" {
		t.Fatalf("unexpected register args: %q %q", f.regUser, f.regPass)
	}
	if !strings.Contains(out.String(), "Registered alice (id 42)") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRegister_PrintsServerDetail(t *testing.T) {
	f := &fakeAuth{regErr: &client.APIError{StatusCode: 400, Detail: "Username already registered"}}
	a, out := newTestApp(f)

	restore := stubInputs(t, "alice", []byte("secret"))
	defer restore()

	err := a.Register(context.Background())
	if !errors.Is(err, client.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if !strings.Contains(out.String(), "Registration failed: Username already registered") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRegister_InputError(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newTestApp(f)

	origST := getSimpleText
	defer func() { getSimpleText = origST }()
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return "", io.EOF }

	if err := a.Register(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if f.regUser != "" {
		t.Fatalf("Register must not be called on input error")
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f)

	restore := stubInputs(t, "alice", []byte("secret"))
	defer restore()
	getNewPassword = func(_ io.Writer) ([]byte, error) { return nil, ErrPasswordMismatch }

	if err := a.Register(context.Background()); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if f.regUser != "" {
		t.Fatalf("Register must not reach the server")
	}
	if !strings.Contains(out.String(), "Registration aborted") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestLogin_Success(t *testing.T) {
	f := &fakeAuth{}
	a, out := newTestApp(f)

	restore := stubInputs(t, "bob", []byte("pw"))
	defer restore()

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if f.loginUser != "bob" || string(f.loginPass) != "pw" {
		t.Fatalf("unexpected login args: %q %q", f.loginUser, f.loginPass)
	}
	if !a.isLoggedIn() {
		t.Fatalf("expected logged in")
	}
	if a.getStatus() != "(bob)" {
		t.Fatalf("unexpected status %q", a.getStatus())
	}
	if !strings.Contains(out.String(), "Logged in as bob") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestLogin_Failure(t *testing.T) {
	f := &fakeAuth{loginErr: &client.APIError{StatusCode: 401, Detail: "Incorrect username or password"}}
	a, out := newTestApp(f)

	restore := stubInputs(t, "bob", []byte("bad"))
	defer restore()

	if err := a.Login(context.Background()); !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if a.isLoggedIn() {
		t.Fatalf("must not be logged in")
	}
	if a.getStatus() != "" {
		t.Fatalf("unexpected status %q", a.getStatus())
	}
	if !strings.Contains(out.String(), "Incorrect username or password") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestMe_PrintsProfile(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	f := &fakeAuth{profile: &models.Profile{ID: "7", UserName: "carol", CreatedAt: created}}
	a, out := newTestApp(f)

	if err := a.Me(context.Background()); err != nil {
		t.Fatalf("Me err: %v", err)
	}
	got := out.String()
	for _, want := range []string{"carol", "7", created.Local().Format(time.RFC3339)} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q does not contain %q", got, want)
		}
	}
}

func TestMe_Error(t *testing.T) {
	f := &fakeAuth{meErr: errors.New("boom")}
	a, out := newTestApp(f)

	if err := a.Me(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(out.String(), "Cannot fetch profile: boom") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRefreshAndLogout(t *testing.T) {
	f := &fakeAuth{userName: "dave"}
	a, out := newTestApp(f)

	if err := a.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh err: %v", err)
	}
	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if !f.loggedOut || a.isLoggedIn() {
		t.Fatalf("expected logged out")
	}
	if !strings.Contains(out.String(), "Access token refreshed") || !strings.Contains(out.String(), "Logged out") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRefresh_Error(t *testing.T) {
	f := &fakeAuth{refreshErr: &client.APIError{StatusCode: 401, Detail: "Invalid refresh token"}}
	a, out := newTestApp(f)

	if err := a.Refresh(context.Background()); !errors.Is(err, client.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(out.String(), "Refresh failed: Invalid refresh token") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api error with detail", &client.APIError{StatusCode: 400, Detail: "nope"}, "nope"},
		{"api error without detail", &client.APIError{StatusCode: 500}, "server returned 500"},
		{"plain error", errors.New("dial tcp: refused"), "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.err); got != tt.want {
				t.Fatalf("describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
