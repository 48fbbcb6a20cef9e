package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/imenik/internal/api"
	"github.com/erazemk/imenik/internal/auth"
	"github.com/erazemk/imenik/internal/db"
	"github.com/erazemk/imenik/internal/model"
)

type harness struct {
	t       *testing.T
	server  string
	session string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := httptest.NewServer(api.NewRouter(db.NewTestDB(t), "test-secret", nil))
	t.Cleanup(srv.Close)
	return &harness{
		t:       t,
		server:  srv.URL,
		session: filepath.Join(t.TempDir(), "session.yaml"),
	}
}

func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--server", h.server, "--session", h.session}, args...)
	code := Execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	code, stdout, stderr := h.run(args...)
	require.Equal(h.t, ExitSuccess, code, "stderr: %s", stderr)
	return stdout
}

func decodeData[T any](t *testing.T, out string) T {
	t.Helper()
	var resp struct {
		Status string `json:"status"`
		Data   T      `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestCommandsEndToEnd(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("signup", "-e", "ana@example.com", "-p", "secret123", "--confirm", "secret123")
	assert.Equal(t, "Signed up as ana@example.com\n", out)

	out = h.mustRun("whoami")
	assert.Contains(t, out, "ana@example.com")

	company := decodeData[model.Company](t, h.mustRun("companies", "add", "--name", "Acme", "--format", "json"))
	require.NotEmpty(t, company.ID)
	assert.Equal(t, "Acme", company.Name)

	person := decodeData[model.Person](t, h.mustRun(
		"people", "add", "--name", "Ana", "--company", company.ID, "--notes", "Met at fair", "--format", "json"))
	require.NotEmpty(t, person.ID)
	require.NotNil(t, person.CompanyID)
	assert.Equal(t, company.ID, *person.CompanyID)
	assert.Equal(t, "Acme", person.CompanyName)

	h.mustRun("people", "add", "--name", "Bob")

	atAcme := decodeData[[]model.Person](t, h.mustRun("people", "list", "--company", company.ID, "--format", "json"))
	require.Len(t, atAcme, 1)
	assert.Equal(t, person.ID, atAcme[0].ID)

	out = h.mustRun("companies", "show", company.ID)
	assert.Contains(t, out, "Acme ("+company.ID+")")
	assert.Contains(t, out, "Met at fair")

	out = h.mustRun("dashboard")
	assert.Contains(t, out, "Signed in as ana@example.com")
	assert.Contains(t, out, "Clients    2")
	assert.Contains(t, out, "Companies  1")

	edited := decodeData[model.Person](t, h.mustRun("people", "edit", person.ID, "--no-company", "--format", "json"))
	assert.Nil(t, edited.CompanyID)
	assert.Empty(t, edited.CompanyName)

	out = h.mustRun("people", "rm", person.ID)
	assert.Equal(t, "Deleted "+person.ID+"\n", out)

	out = h.mustRun("signout")
	assert.Equal(t, "Signed out\n", out)

	code, _, stderr := h.run("people", "list")
	assert.Equal(t, ExitAuthError, code)
	assert.Contains(t, stderr, "not signed in")
}

func TestPeopleAddRequiresName(t *testing.T) {
	h := newHarness(t)
	h.mustRun("signup", "-e", "ana@example.com", "-p", "secret123", "--confirm", "secret123")

	code, stdout, stderr := h.run("people", "add", "--notes", "no name")
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: a name is required\n", stderr)
}

func TestSignInRejected(t *testing.T) {
	h := newHarness(t)
	h.mustRun("signup", "-e", "ana@example.com", "-p", "secret123", "--confirm", "secret123")

	code, _, stderr := h.run("signin", "-e", "ana@example.com", "-p", "wrong-password")
	assert.Equal(t, ExitAuthError, code)
	want := auth.Message(&auth.Error{Code: auth.CodeInvalidCredential})
	assert.Equal(t, "Error: "+want+"\n", stderr)
}

func TestSignUpErrorAsJSON(t *testing.T) {
	h := newHarness(t)
	h.mustRun("signup", "-e", "ana@example.com", "-p", "secret123", "--confirm", "secret123")

	code, _, stderr := h.run("signup", "-e", "ana@example.com", "-p", "secret123", "--confirm", "secret123", "--format", "json")
	assert.Equal(t, ExitAuthError, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stderr), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "auth", resp.Error.Code)
	assert.Equal(t, auth.Message(&auth.Error{Code: auth.CodeEmailInUse}), resp.Error.Message)
}

func TestSignUpPasswordMismatchStopsBeforeServer(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), []string{
		"--server", "http://127.0.0.1:1",
		"--session", filepath.Join(t.TempDir(), "session.yaml"),
		"signup", "-e", "ana@example.com", "-p", "secret123", "--confirm", "secret124",
	}, &stdout, &stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Equal(t, "Error: passwords do not match\n", stderr.String())
}

func TestUnknownPersonIsReported(t *testing.T) {
	h := newHarness(t)
	h.mustRun("signup", "-e", "ana@example.com", "-p", "secret123", "--confirm", "secret123")

	code, _, stderr := h.run("people", "edit", "missing", "--name", "X")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, `no person with id "missing"`)
}
