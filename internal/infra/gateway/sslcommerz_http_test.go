package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ cfg Config }

func (p stubProvider) Current(ctx context.Context) (Config, error) {
	return p.cfg, nil
}

func sandboxConfig() Config {
	return Config{
		StoreID:       "testbox",
		StorePassword: "qwerty",
		IsLive:        false,
		Active:        true,
		Currency:      "BDT",
	}
}

func newTestClient(endpoint string, cfg Config) *SSLCommerzClient {
	c := NewSSLCommerzClient(stubProvider{cfg: cfg})
	c.endpoint = endpoint
	return c
}

// =====================
// CreateSession
// =====================

func TestCreateSession_PostsFormAndParsesRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sessionPath, r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "testbox", r.PostForm.Get("store_id"))
		assert.Equal(t, "qwerty", r.PostForm.Get("store_passwd"))
		assert.Equal(t, "TXN1", r.PostForm.Get("tran_id"))
		assert.Equal(t, "300.00", r.PostForm.Get("total_amount"))
		assert.Equal(t, "BDT", r.PostForm.Get("currency"))
		assert.Equal(t, "BB2509010042", r.PostForm.Get("value_a"))
		assert.Equal(t, "https://api.example.test/api/v1/payments/success", r.PostForm.Get("success_url"))
		assert.Equal(t, "https://api.example.test/api/v1/payments/ipn", r.PostForm.Get("ipn_url"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","sessionkey":"SK0001","GatewayPageURL":"https://sandbox.sslcommerz.com/gw/pay?Q=SK0001"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, sandboxConfig())

	out, err := c.CreateSession(context.Background(), SessionInput{
		TransactionID: "TXN1",
		OrderNumber:   "BB2509010042",
		Amount:        "300.00",
		SuccessURL:    "https://api.example.test/api/v1/payments/success",
		FailURL:       "https://api.example.test/api/v1/payments/fail",
		CancelURL:     "https://api.example.test/api/v1/payments/cancel",
		IPNURL:        "https://api.example.test/api/v1/payments/ipn",
	})
	require.NoError(t, err)
	assert.Equal(t, "TXN1", out.TransactionID)
	assert.Equal(t, "SK0001", out.SessionKey)
	assert.Equal(t, "https://sandbox.sslcommerz.com/gw/pay?Q=SK0001", out.GatewayPageURL)
	assert.NotEmpty(t, out.Raw)
}

func TestCreateSession_CurrencyFallsBackToConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "BDT", r.PostForm.Get("currency"))
		w.Write([]byte(`{"status":"SUCCESS","sessionkey":"SK","GatewayPageURL":"https://pay.example/p"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, sandboxConfig())

	_, err := c.CreateSession(context.Background(), SessionInput{TransactionID: "TXN2", Amount: "100.00"})
	assert.NoError(t, err)
}

func TestCreateSession_RejectedByGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credential invalid"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, sandboxConfig())

	_, err := c.CreateSession(context.Background(), SessionInput{TransactionID: "TXN3", Amount: "100.00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store credential invalid")
}

func TestCreateSession_GatewayDisabled(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := sandboxConfig()
	cfg.Active = false
	c := newTestClient(srv.URL, cfg)

	_, err := c.CreateSession(context.Background(), SessionInput{TransactionID: "TXN4", Amount: "100.00"})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestCreateSession_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("gateway blew up"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, sandboxConfig())

	_, err := c.CreateSession(context.Background(), SessionInput{TransactionID: "TXN5", Amount: "100.00"})
	assert.Error(t, err)
}

// =====================
// ValidatePayment
// =====================

func TestValidatePayment_PostsFormAndParsesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, validationPath, r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "testbox", r.PostForm.Get("store_id"))
		assert.Equal(t, "VAL999", r.PostForm.Get("val_id"))
		assert.Equal(t, "300.00", r.PostForm.Get("amount"))
		assert.Equal(t, "BDT", r.PostForm.Get("currency"))

		w.Write([]byte(`{"status":"VALID","tran_id":"TXN123abc","val_id":"VAL999","amount":"300.00","currency":"BDT"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, sandboxConfig())

	out, err := c.ValidatePayment(context.Background(), "VAL999", "300.00", "BDT")
	require.NoError(t, err)
	assert.True(t, out.IsValid())
	assert.Equal(t, "TXN123abc", out.TranID)
	assert.Equal(t, "VAL999", out.ValID)
}

func TestValidatePayment_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, sandboxConfig())

	_, err := c.ValidatePayment(context.Background(), "VAL1", "100.00", "BDT")
	assert.Error(t, err)
}

// =====================
// ベースURL選択
// =====================

func TestBaseURL_SandboxAndLive(t *testing.T) {
	c := NewSSLCommerzClient(stubProvider{cfg: sandboxConfig()})

	assert.Equal(t, sandboxBaseURL, c.baseURL(Config{IsLive: false}))
	assert.Equal(t, liveBaseURL, c.baseURL(Config{IsLive: true}))

	c.endpoint = "http://127.0.0.1:9"
	assert.Equal(t, "http://127.0.0.1:9", c.baseURL(Config{IsLive: true}))
}
