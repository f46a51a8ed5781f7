package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	sandboxBaseURL = "https://sandbox.sslcommerz.com"
	liveBaseURL    = "https://securepay.sslcommerz.com"

	sessionPath    = "/gwprocess/v4/api.php"
	validationPath = "/validator/api/validationserverAPI.php"
)

// ゲートウェイ資格情報。管理設定ストアから供給される。
type Config struct {
	StoreID       string
	StorePassword string
	IsLive        bool
	Active        bool
	Currency      string
}

// 資格情報の供給元。Reloadは管理設定更新時に明示的に呼ぶ。
type ConfigProvider interface {
	Current(ctx context.Context) (Config, error)
}

// SSLCommerzのセッション作成と検証を行うHTTPクライアント。
// 決済往復はカート/注文のロックを持たないところで呼ぶこと。
type SSLCommerzClient struct {
	provider ConfigProvider
	http     *http.Client

	// テスト用。空なら IsLive に応じた既定URL。
	endpoint string
}

func NewSSLCommerzClient(provider ConfigProvider) *SSLCommerzClient {
	return &SSLCommerzClient{
		provider: provider,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// 取引ID。時刻＋ランダム接尾辞で実用上一意（暗号学的な保証はしない）。
func NewTransactionID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return "TXN" + strconv.FormatInt(time.Now().UnixNano(), 10) + suffix
}

type SessionInput struct {
	TransactionID string
	OrderNumber   string
	Amount        string
	Currency      string

	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	CustomerCity    string
	CustomerZipCode string
	CustomerCountry string

	SuccessURL string
	FailURL    string
	CancelURL  string
	IPNURL     string
}

type SessionResult struct {
	TransactionID  string
	GatewayPageURL string
	SessionKey     string
	Raw            string
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// 決済セッションを作成してリダイレクトURLを得る
func (c *SSLCommerzClient) CreateSession(ctx context.Context, in SessionInput) (SessionResult, error) {
	cfg, err := c.provider.Current(ctx)
	if err != nil {
		return SessionResult{}, fmt.Errorf("sslcommerz: load config: %w", err)
	}
	if !cfg.Active {
		return SessionResult{}, fmt.Errorf("sslcommerz: gateway is disabled")
	}

	currency := in.Currency
	if currency == "" {
		currency = cfg.Currency
	}

	form := url.Values{}
	form.Set("store_id", cfg.StoreID)
	form.Set("store_passwd", cfg.StorePassword)
	form.Set("total_amount", in.Amount)
	form.Set("currency", currency)
	form.Set("tran_id", in.TransactionID)
	form.Set("product_category", "Food")
	form.Set("cus_name", in.CustomerName)
	form.Set("cus_email", in.CustomerEmail)
	form.Set("cus_add1", in.CustomerAddress)
	form.Set("cus_city", in.CustomerCity)
	form.Set("cus_postcode", in.CustomerZipCode)
	form.Set("cus_country", in.CustomerCountry)
	form.Set("cus_phone", in.CustomerPhone)
	form.Set("ship_name", in.CustomerName)
	form.Set("ship_add1", in.CustomerAddress)
	form.Set("ship_city", in.CustomerCity)
	form.Set("ship_postcode", in.CustomerZipCode)
	form.Set("ship_country", in.CustomerCountry)
	form.Set("success_url", in.SuccessURL)
	form.Set("fail_url", in.FailURL)
	form.Set("cancel_url", in.CancelURL)
	form.Set("ipn_url", in.IPNURL)
	form.Set("value_a", in.OrderNumber)

	body, err := c.postForm(ctx, c.baseURL(cfg)+sessionPath, form)
	if err != nil {
		return SessionResult{}, err
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return SessionResult{}, fmt.Errorf("sslcommerz: parse session response: %w", err)
	}

	if !strings.EqualFold(resp.Status, "SUCCESS") {
		return SessionResult{}, fmt.Errorf("sslcommerz: session rejected: %s", resp.FailedReason)
	}
	if resp.GatewayPageURL == "" {
		return SessionResult{}, fmt.Errorf("sslcommerz: empty gateway page url")
	}

	return SessionResult{
		TransactionID:  in.TransactionID,
		GatewayPageURL: resp.GatewayPageURL,
		SessionKey:     resp.SessionKey,
		Raw:            string(body),
	}, nil
}

type ValidationResult struct {
	Status   string
	TranID   string
	ValID    string
	Amount   string
	Currency string
	Raw      string
}

type validationResponse struct {
	Status   string `json:"status"`
	TranID   string `json:"tran_id"`
	ValID    string `json:"val_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// 検証済みかどうか。再送時は VALIDATED で返ってくる。
func (v ValidationResult) IsValid() bool {
	return v.Status == "VALID" || v.Status == "VALIDATED"
}

// コールバックを信用する前のサーバー間検証
func (c *SSLCommerzClient) ValidatePayment(ctx context.Context, valID, amount, currency string) (ValidationResult, error) {
	cfg, err := c.provider.Current(ctx)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("sslcommerz: load config: %w", err)
	}

	form := url.Values{}
	form.Set("store_id", cfg.StoreID)
	form.Set("store_passwd", cfg.StorePassword)
	form.Set("val_id", valID)
	form.Set("amount", amount)
	form.Set("currency", currency)

	body, err := c.postForm(ctx, c.baseURL(cfg)+validationPath, form)
	if err != nil {
		return ValidationResult{}, err
	}

	var resp validationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ValidationResult{}, fmt.Errorf("sslcommerz: parse validation response: %w", err)
	}

	return ValidationResult{
		Status:   resp.Status,
		TranID:   resp.TranID,
		ValID:    resp.ValID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		Raw:      string(body),
	}, nil
}

func (c *SSLCommerzClient) baseURL(cfg Config) string {
	if c.endpoint != "" {
		return c.endpoint
	}
	if cfg.IsLive {
		return liveBaseURL
	}
	return sandboxBaseURL
}

func (c *SSLCommerzClient) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("sslcommerz: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sslcommerz: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sslcommerz: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sslcommerz: gateway returned %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
