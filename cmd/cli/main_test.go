package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/casevault/casevault/pkg/service/login"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type stubs struct {
	identityCalls atomic.Int32
	relayCalls    atomic.Int32
	relayStatus   int
	relayBody     atomic.Value
}

func startStubs(t *testing.T, relayStatus int) *stubs {
	t.Helper()
	s := &stubs{relayStatus: relayStatus}
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.identityCalls.Add(1)
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "secret123" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"localId": "uid-1", "email": body.Email, "idToken": "header.payload.sig", "expiresIn": "3600",
		})
	}))
	t.Cleanup(idp.Close)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.relayCalls.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.relayBody.Store(body["idToken"])
		w.WriteHeader(s.relayStatus)
		_, _ = w.Write([]byte(`{"status":200}`))
	}))
	t.Cleanup(backend.Close)

	t.Setenv("IDENTITY_BASE_URL", idp.URL)
	t.Setenv("IDENTITY_API_KEY", "test-key")
	t.Setenv("RELAY_URL", backend.URL+"/login")
	t.Setenv("AUTH_STRATEGY", "hmac")
	t.Setenv("AUTH_HMAC_SECRET", "cli-secret")
	t.Setenv("LOG_LEVEL", "8")
	return s
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	code := run(context.Background(), append(args, "--env", "missing-for-tests.env"), strings.NewReader(stdin), &out)
	return code, out.String()
}

func TestLogin_Success(t *testing.T) {
	s := startStubs(t, http.StatusOK)

	code, out := runCLI(t, "user@example.com\nsecret123\n", "login")

	assert.Equal(t, 0, code, out)
	assert.Contains(t, out, "[Login Success] Welcome user@example.com")
	assert.Contains(t, out, "-> CaseVault home (/)")
	assert.Equal(t, "header.payload.sig", s.relayBody.Load())
}

func TestLogin_EmailFlagAndBadPassword(t *testing.T) {
	s := startStubs(t, http.StatusOK)

	code, out := runCLI(t, "wrong\n", "login", "--email", "user@example.com")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[Login Error] The email or password is incorrect.")
	assert.Zero(t, s.relayCalls.Load())
}

func TestLogin_InvalidEmailNeverCallsOut(t *testing.T) {
	s := startStubs(t, http.StatusOK)

	code, out := runCLI(t, "not-an-email\nsecret123\n", "login")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[Error] Please enter a valid email address.")
	assert.Zero(t, s.identityCalls.Load())
	assert.Zero(t, s.relayCalls.Load())
}

func TestLogin_BackendRejects(t *testing.T) {
	startStubs(t, http.StatusInternalServerError)

	code, out := runCLI(t, "user@example.com\nsecret123\n", "login")

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "[Backend Error] Unable to process login. Please try again.")
	assert.NotContains(t, out, "-> CaseVault home")
}

func TestSignupAndForgotPassword(t *testing.T) {
	startStubs(t, http.StatusOK)

	code, out := runCLI(t, "", "signup")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "-> Create account (/Signup)")

	code, out = runCLI(t, "", "forgot-password")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "[Feature Coming Soon!]")
}

func TestUsage(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Usage: casevault-cli")

	startStubs(t, http.StatusOK)
	code, text := runCLI(t, "", "dance")
	assert.Equal(t, 2, code)
	assert.Contains(t, text, `unknown command "dance"`)
}

func TestTerminal_Navigate(t *testing.T) {
	var out bytes.Buffer
	ui := newTerminal(&out)
	ui.Navigate("/elsewhere")
	ui.Notify(login.Notice{Kind: login.NoticeKind(42), Title: "Odd"})
	assert.Equal(t, "/elsewhere", ui.route)
	assert.Equal(t, "-> /elsewhere (/elsewhere)\n[Odd]\n", out.String())
}
