package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/http/controller"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/adapter/repository/memory"
	"github.com/pr-poehali-dev/bank-brill-design/src/internal/usecase/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAccountMux(t *testing.T) *http.ServeMux {
	t.Helper()
	store := memory.NewStore()
	svc := services.NewAccountService(store, store, store, store, store, bcrypt.MinCost)

	mux := http.NewServeMux()
	controller.NewAccountController(svc).RegisterRoutes(mux, nil)
	controller.NewHealthController(store).RegisterRoutes(mux, nil)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestAccountControllerLifecycle(t *testing.T) {
	mux := newAccountMux(t)

	rr, env := do(t, mux, http.MethodPost, "/accounts", `{"email":"anna@example.com","full_name":"Anna K","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter22")

	var account struct {
		ID      string  `json:"id"`
		Email   string  `json:"email"`
		Balance float64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &account))
	assert.Equal(t, "anna@example.com", account.Email)
	assert.Zero(t, account.Balance)

	rr, env = do(t, mux, http.MethodPost, "/accounts/"+account.ID+"/deposits", `{"amount":"1000.00"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"transaction_id":1,"amount":1000.00,"new_balance":1000.00}`, string(env.Data))

	rr, env = do(t, mux, http.MethodGet, "/accounts/"+account.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &account))
	assert.Equal(t, 1000.0, account.Balance)

	rr, env = do(t, mux, http.MethodGet, "/accounts/"+account.ID+"/transactions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var history []struct {
		Kind   string `json:"kind"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "deposit", history[0].Kind)
	assert.Equal(t, "completed", history[0].Status)
}

func TestAccountControllerErrors(t *testing.T) {
	mux := newAccountMux(t)
	body := `{"email":"anna@example.com","full_name":"Anna K","password":"hunter22"}`

	rr, _ := do(t, mux, http.MethodPost, "/accounts", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := do(t, mux, http.MethodPost, "/accounts", body)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, env.Success)

	rr, env = do(t, mux, http.MethodPost, "/accounts", `{"email":"x@example.com","full_name":"","password":"hunter22"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []string{"full_name is required"}, env.Errors)

	rr, _ = do(t, mux, http.MethodGet, "/accounts/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, mux, http.MethodPost, "/accounts/missing/deposits", `{"amount":5}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = do(t, mux, http.MethodPost, "/accounts/missing/deposits", `{"amount":"zero"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = do(t, mux, http.MethodPost, "/accounts", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, env = do(t, mux, http.MethodPost, "/accounts", `{"email":"y@example.com","full_name":"`+strings.Repeat("a", 1<<20)+`","password":"hunter22"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid request body", env.Message)
}

func TestAccountControllerDepositLimits(t *testing.T) {
	mux := newAccountMux(t)

	rr, env := do(t, mux, http.MethodPost, "/accounts", `{"email":"anna@example.com","full_name":"Anna K","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var account struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &account))
	deposits := "/accounts/" + account.ID + "/deposits"

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"largest balance", `{"amount":"9999999999999999.99"}`, http.StatusOK},
		{"one cent over the limit", `{"amount":"0.01"}`, http.StatusBadRequest},
		{"past int64", `{"amount":"92233720368547758.07"}`, http.StatusBadRequest},
		{"huge exponent", `{"amount":"1e50000000"}`, http.StatusBadRequest},
		{"huge negative exponent", `{"amount":"1e-50000000"}`, http.StatusBadRequest},
		{"oversized body", `{"amount":"1","pad":"` + strings.Repeat("0", 1<<20) + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		rr, env := do(t, mux, http.MethodPost, deposits, tt.body)
		assert.Equal(t, tt.wantStatus, rr.Code, tt.name)
		assert.Equal(t, tt.wantStatus == http.StatusOK, env.Success, tt.name)
	}

	rr, env = do(t, mux, http.MethodGet, "/accounts/"+account.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), "9999999999999999.99")
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return context.DeadlineExceeded }

func TestHealthController(t *testing.T) {
	mux := newAccountMux(t)
	rr, env := do(t, mux, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)

	down := http.NewServeMux()
	controller.NewHealthController(downStore{}).RegisterRoutes(down, nil)
	rr, env = do(t, down, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.False(t, env.Success)
}
