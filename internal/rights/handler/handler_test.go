package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostokey/internal/jwtauth"
	"mostokey/internal/payout"
	"mostokey/internal/platform/middleware"
	"mostokey/internal/rights/service"
	"mostokey/internal/rights/store/memory"
	"mostokey/pkg/domain"
)

type fixture struct {
	router chi.Router
	tokens *jwtauth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwtauth.New("test-signing-key", "mostokey", "mostokey-api")
	svc := service.New(memory.New(), payout.NewBank(), service.WithLogger(logger))
	h := New(svc, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	h.Register(router, middleware.RequireAuth(tokens, logger))
	return &fixture{router: router, tokens: tokens}
}

func (f *fixture) authed(t *testing.T, account domain.AccountID) string {
	t.Helper()
	token, err := f.tokens.GenerateAccessToken(account, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func (f *fixture) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createToken(t *testing.T, auth, name, symbol, url string) *TokenResponse {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/tokens", auth, map[string]any{
		"name":            name,
		"symbol":          symbol,
		"total_supply":    1000,
		"price_per_token": 100,
		"video_url":       url,
		"attestation":     "sig:test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return &resp
}

func TestCreateTokenRequiresAuth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/v1/tokens", "", map[string]any{"name": "X"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndFetchToken(t *testing.T) {
	f := newFixture(t)
	auth := f.authed(t, "0xalice")

	created := f.createToken(t, auth, "My Video Token", "MVT", "https://v/mvt")
	assert.Equal(t, domain.AccountID("0xalice"), created.Creator)
	assert.Equal(t, uint64(1000), created.TotalSupply)
	assert.True(t, created.Active)

	rec := f.do(t, http.MethodGet, "/v1/tokens/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, uint64(1000), fetched.Available)
}

func TestCreateTokenValidationErrors(t *testing.T) {
	f := newFixture(t)
	auth := f.authed(t, "0xalice")

	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{"missing name", map[string]any{"symbol": "S", "total_supply": 1, "price_per_token": 1, "video_url": "https://v/x", "attestation": "a"}, http.StatusBadRequest},
		{"zero supply", map[string]any{"name": "N", "symbol": "S", "total_supply": 0, "price_per_token": 1, "video_url": "https://v/x", "attestation": "a"}, http.StatusBadRequest},
		{"zero price", map[string]any{"name": "N", "symbol": "S", "total_supply": 1, "price_per_token": 0, "video_url": "https://v/x", "attestation": "a"}, http.StatusBadRequest},
		{"blank attestation", map[string]any{"name": "N", "symbol": "S", "total_supply": 1, "price_per_token": 1, "video_url": "https://v/x", "attestation": " "}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/v1/tokens", auth, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestDuplicateTokenConflicts(t *testing.T) {
	f := newFixture(t)
	auth := f.authed(t, "0xalice")
	f.createToken(t, auth, "Video One", "ONE", "https://v/one")

	rec := f.do(t, http.MethodPost, "/v1/tokens", f.authed(t, "0xbob"), map[string]any{
		"name":            "Other",
		"symbol":          "OTH",
		"total_supply":    10,
		"price_per_token": 1,
		"video_url":       "https://v/one",
		"attestation":     "sig:test",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPurchaseFlow(t *testing.T) {
	f := newFixture(t)
	creator := f.authed(t, "0xalice")
	buyer := f.authed(t, "0xbuyer")
	created := f.createToken(t, creator, "Sellable", "SEL", "https://v/sell")

	rec := f.do(t, http.MethodPost, "/v1/tokens/"+created.ID.String()+"/purchase", buyer, map[string]any{
		"amount":     10,
		"paid_value": 1000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var receipt struct {
		Amount       uint64 `json:"amount"`
		Cost         uint64 `json:"cost"`
		Refund       uint64 `json:"refund"`
		SoldTokens   uint64 `json:"sold_tokens"`
		BuyerBalance uint64 `json:"buyer_balance"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&receipt))
	assert.Equal(t, uint64(10), receipt.Amount)
	assert.Equal(t, uint64(1000), receipt.Cost)
	assert.Zero(t, receipt.Refund)
	assert.Equal(t, uint64(10), receipt.SoldTokens)
	assert.Equal(t, uint64(10), receipt.BuyerBalance)

	balRec := f.do(t, http.MethodGet, "/v1/tokens/"+created.ID.String()+"/balances/0xbuyer", "", nil)
	require.Equal(t, http.StatusOK, balRec.Code)
	var balance BalanceResponse
	require.NoError(t, json.NewDecoder(balRec.Body).Decode(&balance))
	assert.Equal(t, uint64(10), balance.Units)

	earnRec := f.do(t, http.MethodGet, "/v1/creators/0xalice/earnings", "", nil)
	require.Equal(t, http.StatusOK, earnRec.Code)
	var earnings EarningsResponse
	require.NoError(t, json.NewDecoder(earnRec.Body).Decode(&earnings))
	assert.Equal(t, uint64(1000), earnings.Balance)
}

func TestPurchaseFailureStatuses(t *testing.T) {
	f := newFixture(t)
	creator := f.authed(t, "0xalice")
	buyer := f.authed(t, "0xbuyer")
	created := f.createToken(t, creator, "Guarded", "GRD", "https://v/guard")

	cases := []struct {
		name string
		path string
		body map[string]any
		want int
	}{
		{"unknown record", "/v1/tokens/00000000-0000-0000-0000-00000000beef/purchase", map[string]any{"amount": 1, "paid_value": 100}, http.StatusNotFound},
		{"malformed record id", "/v1/tokens/not-a-uuid/purchase", map[string]any{"amount": 1, "paid_value": 100}, http.StatusBadRequest},
		{"oversell", "/v1/tokens/" + created.ID.String() + "/purchase", map[string]any{"amount": 2000, "paid_value": 200000}, http.StatusConflict},
		{"underpayment", "/v1/tokens/" + created.ID.String() + "/purchase", map[string]any{"amount": 10, "paid_value": 1}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, tc.path, buyer, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestWithdrawFlow(t *testing.T) {
	f := newFixture(t)
	creator := f.authed(t, "0xalice")
	buyer := f.authed(t, "0xbuyer")
	created := f.createToken(t, creator, "Earner", "ERN", "https://v/earn")

	rec := f.do(t, http.MethodPost, "/v1/tokens/"+created.ID.String()+"/purchase", buyer, map[string]any{
		"amount":     10,
		"paid_value": 1000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	withdraw := func() WithdrawResponse {
		rec := f.do(t, http.MethodPost, "/v1/earnings/withdraw", creator, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp WithdrawResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp
	}

	first := withdraw()
	assert.Equal(t, uint64(1000), first.AmountPaid)

	second := withdraw()
	assert.Zero(t, second.AmountPaid)

	earnRec := f.do(t, http.MethodGet, "/v1/earnings", creator, nil)
	require.Equal(t, http.StatusOK, earnRec.Code)
	var earnings EarningsResponse
	require.NoError(t, json.NewDecoder(earnRec.Body).Decode(&earnings))
	assert.Zero(t, earnings.Balance)
}

func TestEnumerationEndpoints(t *testing.T) {
	f := newFixture(t)
	alice := f.authed(t, "0xalice")
	bob := f.authed(t, "0xbob")

	first := f.createToken(t, alice, "A", "AAA", "https://v/a")
	second := f.createToken(t, bob, "B", "BBB", "https://v/b")
	third := f.createToken(t, alice, "C", "CCC", "https://v/c")

	listRec := f.do(t, http.MethodGet, "/v1/tokens", "", nil)
	require.Equal(t, http.StatusOK, listRec.Code)
	var list ListResponse
	require.NoError(t, json.NewDecoder(listRec.Body).Decode(&list))
	assert.Equal(t, []domain.RecordID{first.ID, second.ID, third.ID}, list.Records)

	for i, want := range list.Records {
		idxRec := f.do(t, http.MethodGet, fmt.Sprintf("/v1/tokens/index/%d", i), "", nil)
		require.Equal(t, http.StatusOK, idxRec.Code)
		var idx IndexResponse
		require.NoError(t, json.NewDecoder(idxRec.Body).Decode(&idx))
		assert.Equal(t, want, idx.Record)
	}
	pastEnd := f.do(t, http.MethodGet, "/v1/tokens/index/3", "", nil)
	assert.Equal(t, http.StatusNotFound, pastEnd.Code)

	byCreator := f.do(t, http.MethodGet, "/v1/creators/0xalice/tokens", "", nil)
	require.Equal(t, http.StatusOK, byCreator.Code)
	var mine ListResponse
	require.NoError(t, json.NewDecoder(byCreator.Body).Decode(&mine))
	assert.Equal(t, []domain.RecordID{first.ID, third.ID}, mine.Records)
}

func TestDeactivateEndpoint(t *testing.T) {
	f := newFixture(t)
	alice := f.authed(t, "0xalice")
	created := f.createToken(t, alice, "Closing", "CLS", "https://v/closing")

	forbidden := f.do(t, http.MethodPost, "/v1/tokens/"+created.ID.String()+"/deactivate", f.authed(t, "0xbob"), nil)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	ok := f.do(t, http.MethodPost, "/v1/tokens/"+created.ID.String()+"/deactivate", alice, nil)
	assert.Equal(t, http.StatusNoContent, ok.Code)

	again := f.do(t, http.MethodPost, "/v1/tokens/"+created.ID.String()+"/deactivate", alice, nil)
	assert.Equal(t, http.StatusConflict, again.Code)

	// Historical reads still resolve after deactivation.
	fetched := f.do(t, http.MethodGet, "/v1/tokens/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, fetched.Code)
}
