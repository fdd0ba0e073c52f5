package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/iho/paytransfer/internal/adapter/http"
	"github.com/iho/paytransfer/internal/adapter/http/handler"
	"github.com/iho/paytransfer/internal/adapter/repository/memory"
	"github.com/iho/paytransfer/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	locker := memory.NewKeyLocker()
	accounts := memory.NewAccountStore(locker)
	log := memory.NewTransactionLog(locker)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(usecase.NewAccountUseCase(accounts, nil, zerolog.Nop()), zerolog.Nop()),
		TransferHandler: handler.NewTransferHandler(usecase.NewTransferUseCase(memory.NewTxManager(locker), accounts, log), zerolog.Nop()),
		HealthHandler:   handler.NewHealthHandler(),
		Logger:          zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--url", srv.URL}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, struct {
		A int `json:"a"`
	}{A: 1}))

	expected := "{\n  \"a\": 1\n}\n"
	if out.String() != expected {
		t.Fatalf("unexpected json output:\n%s", out.String())
	}
}

func TestCLI_AccountAndTransferFlow(t *testing.T) {
	srv := newTestServer(t)

	out, err := run(t, srv, "account", "create", "--id", "111", "--balance", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "Account 111 created")

	_, err = run(t, srv, "account", "create", "--id", "222", "--balance", "0")
	require.NoError(t, err)

	out, err = run(t, srv, "transfer", "create", "--from", "111", "--to", "222", "--amount", "50.12345")
	require.NoError(t, err)
	assert.Contains(t, out, "Transaction processed successfully")

	out, err = run(t, srv, "account", "get", "111")
	require.NoError(t, err)
	assert.Contains(t, out, "149.87655")

	out, err = run(t, srv, "transfer", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "50.12345")

	out, err = run(t, srv, "transfer", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"destination_account_id": 222`)
}

func TestCLI_ReportsAPIErrors(t *testing.T) {
	srv := newTestServer(t)

	_, err := run(t, srv, "account", "get", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Account with ID 999 not found")
	assert.Contains(t, err.Error(), "status 404")

	_, err = run(t, srv, "account", "create", "--id", "1", "--balance", "5")
	require.NoError(t, err)

	_, err = run(t, srv, "account", "create", "--id", "1", "--balance", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 409")
}

func TestCLI_RejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	_, err := run(t, srv, "account", "get", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)

	_, err = run(t, srv, "transfer", "create", "--from", "1", "--to", "2", "--amount", "ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}
