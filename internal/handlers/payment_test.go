package handlers

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"payu-relay/internal/models"
	"payu-relay/internal/services"
	"payu-relay/internal/store"
)

const (
	testKey           = "gtKFFx"
	testSalt          = "eCwWELxi"
	testAdminUser     = "admin"
	testAdminPassword = "hunter2hunter2"
	testJWTSecret     = "test-jwt-secret"
)

var txnidPattern = regexp.MustCompile(`name="txnid" value="([0-9a-f]{20})"`)

func newTestRouter(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	signer := services.NewHashSigner(testKey, testSalt)
	adapter := services.NewPayUAdapter(testKey, "https://test.payu.in/_payment", "https://relay.example.com")
	svc := services.NewPaymentService(st, signer, adapter, false)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	payment := NewPaymentHandler(svc)
	auth := NewAuthHandler(testAdminUser, string(hash), testJWTSecret)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(payment, auth, logger), st
}

// responseHash mirrors the gateway's reverse-order response signature.
func responseHash(status, txnid, amount, productinfo, firstname, email string) string {
	seq := testSalt + "|" + status + "|||||||||||" +
		email + "|" + firstname + "|" + productinfo + "|" + amount + "|" + txnid + "|" + testKey
	sum := sha512.Sum512([]byte(seq))
	return hex.EncodeToString(sum[:])
}

func postForm(t *testing.T, router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestPayPage(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/pay", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="amount"`)
	assert.Contains(t, rr.Body.String(), `action="/pay"`)
}

func TestPayRendersAutoSubmitForm(t *testing.T) {
	router, st := newTestRouter(t)

	rr := postForm(t, router, "/pay", url.Values{
		"amount":    {"499.5"},
		"firstname": {"Asha"},
		"email":     {"a@x.com"},
	})

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `action="https://test.payu.in/_payment"`)
	assert.Contains(t, body, `name="amount" value="499.50"`)
	assert.Contains(t, body, `name="surl" value="https://relay.example.com/success"`)
	assert.Contains(t, body, `name="hash"`)

	match := txnidPattern.FindStringSubmatch(body)
	require.Len(t, match, 2, "redirect form must carry the txnid")

	recs, err := st.FindAll(context.Background(), store.Filter{TxnID: match[1]})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StatusInitiated, recs[0].Status)
}

func TestPayValidationFailure(t *testing.T) {
	router, st := newTestRouter(t)

	rr := postForm(t, router, "/pay", url.Values{
		"amount":    {"499.5"},
		"firstname": {"Asha"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation_error")

	recs, err := st.FindAll(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSuccessCallbackPersistsAndAcks(t *testing.T) {
	router, st := newTestRouter(t)

	txnid := "abc123abc123abc123ab"
	rr := postForm(t, router, "/success", url.Values{
		"txnid":       {txnid},
		"status":      {"success"},
		"amount":      {"499.50"},
		"productinfo": {"Test Product"},
		"firstname":   {"Asha"},
		"email":       {"a@x.com"},
		"hash":        {responseHash("success", txnid, "499.50", "Test Product", "Asha", "a@x.com")},
		"mihpayid":    {"403993715521234567"},
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var ack struct {
		Status  string            `json:"status"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ack))
	assert.Equal(t, "success", ack.Status)
	assert.Equal(t, txnid, ack.Details["txnid"])

	recs, err := st.FindAll(context.Background(), store.Filter{TxnID: txnid})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StatusSuccess, recs[0].Status)
	assert.Equal(t, models.ChannelGatewayConfirmation, recs[0].Channel)
	assert.Equal(t, "403993715521234567", recs[0].Extra["mihpayid"])
}

func TestFailureCallbackDerivesStatusFromPath(t *testing.T) {
	router, st := newTestRouter(t)

	rr := postForm(t, router, "/failure", url.Values{
		"txnid":  {"abc123abc123abc123ab"},
		"status": {"failure"},
		"amount": {"499.50"},
	})

	require.Equal(t, http.StatusOK, rr.Code)

	recs, err := st.FindAll(context.Background(), store.Filter{TxnID: "abc123abc123abc123ab"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.StatusFailure, recs[0].Status)
	assert.Equal(t, "false", recs[0].Extra["hash_verified"], "unsigned callback is flagged")
}

func TestCourtesyPagesPersistNothing(t *testing.T) {
	router, st := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/success?txnid=abc123", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "not proof of payment")
	assert.Contains(t, rr.Body.String(), "abc123")

	req = httptest.NewRequest(http.MethodGet, "/failure", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "did not complete")

	recs, err := st.FindAll(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, recs, "courtesy redirects must not touch the ledger")
}

func TestPaymentsRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/payments", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginAndListPayments(t *testing.T) {
	router, _ := newTestRouter(t)

	// Seed one transaction through the public flow.
	rr := postForm(t, router, "/pay", url.Values{
		"amount":    {"10"},
		"firstname": {"Asha"},
		"email":     {"a@x.com"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	token := loginToken(t, router, testAdminPassword)

	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var recs []models.TransactionRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "10.00", recs[0].Amount)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"username":"admin","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetPaymentResolves(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := postForm(t, router, "/pay", url.Values{
		"amount":    {"499.5"},
		"firstname": {"Asha"},
		"email":     {"a@x.com"},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	match := txnidPattern.FindStringSubmatch(rr.Body.String())
	require.Len(t, match, 2)
	txnid := match[1]

	rr = postForm(t, router, "/success", url.Values{
		"txnid":  {txnid},
		"status": {"success"},
		"amount": {"499.50"},
		"hash":   {responseHash("success", txnid, "499.50", "", "", "")},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	token := loginToken(t, router, testAdminPassword)
	req := httptest.NewRequest(http.MethodGet, "/payments/"+txnid, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resolved struct {
		TxnID       string                     `json:"txnid"`
		FinalStatus string                     `json:"final_status"`
		Records     []models.TransactionRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resolved))
	assert.Equal(t, txnid, resolved.TxnID)
	assert.Equal(t, "success", resolved.FinalStatus)
	assert.Len(t, resolved.Records, 2)
}

func loginToken(t *testing.T, router http.Handler, password string) string {
	t.Helper()
	body := `{"username":"` + testAdminUser + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
