package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	errx "github.com/storefront-core/server/internal/core/error"
	"github.com/storefront-core/server/internal/storefront/model"
	logx "github.com/storefront-core/server/pkg/logger"
)

const maxBodyBytes = 4 << 20

// Client talks to the remote storefront API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(cfg model.APIConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
	}
}

// ListProducts fetches GET /products. Records that fail validation are dropped and logged.
func (c *Client) ListProducts(ctx context.Context, q model.ProductQuery) ([]model.Product, error) {
	params := url.Values{}
	if q.CategoryID != nil {
		params.Set("category_id", strconv.Itoa(*q.CategoryID))
	}
	if q.MinPrice != nil {
		params.Set("min_price", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		params.Set("max_price", q.MaxPrice.String())
	}
	if q.SortBy != "" {
		params.Set("sort_by", q.SortBy)
	}

	body, err := c.get(ctx, "products", params)
	if err != nil {
		return nil, err
	}

	products, report, err := ParseProducts(body)
	if err != nil {
		logx.Error().Err(err).Msg("failed to decode product listing")
		return nil, fmt.Errorf("decode products: %w", err)
	}
	logRejected("product", report)
	return products, nil
}

// ListCategories fetches GET /categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	body, err := c.get(ctx, "categories", nil)
	if err != nil {
		return nil, err
	}

	categories, report, err := ParseCategories(body)
	if err != nil {
		logx.Error().Err(err).Msg("failed to decode category listing")
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	logRejected("category", report)
	return categories, nil
}

// SubmitOrder POSTs the payload to /orders once. Failures come back as errx
// errors: NETWORK_ERROR when no response arrived, ORDER_FAILED otherwise.
func (c *Client) SubmitOrder(ctx context.Context, payload model.OrderPayload, idempotencyKey string) (*model.OrderResponse, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, errx.Wrap(err, errx.CodeInternal, http.StatusInternalServerError, errx.SystemErrorMessage)
	}

	endpoint, err := url.JoinPath(c.baseURL, "orders")
	if err != nil {
		return nil, errx.Wrap(err, errx.CodeInternal, http.StatusInternalServerError, errx.SystemErrorMessage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, errx.Wrap(err, errx.CodeInternal, http.StatusInternalServerError, errx.SystemErrorMessage)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logx.Error().Err(err).Str("endpoint", endpoint).Msg("order request failed")
		return nil, errx.Network(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logx.Error().Err(err).Int("status", resp.StatusCode).Msg("failed to read order response")
		return nil, errx.Network(err)
	}

	ack := decodeOrderAck(respBody)
	if !isSuccess(resp.StatusCode) {
		logx.Warn().Int("status", resp.StatusCode).Str("message", ack.Message).Msg("order rejected")
		return nil, errx.OrderFailed(resp.StatusCode, ack.Message, fmt.Errorf("order api returned status %d", resp.StatusCode))
	}
	if ack.OrderNumber == "" {
		logx.Warn().Int("status", resp.StatusCode).Msg("order response has no order_number")
		return nil, errx.OrderFailed(resp.StatusCode, "", fmt.Errorf("order api response missing order_number"))
	}

	return &ack, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("build %s url: %w", path, err)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.setUserAgent(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errx.Network(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errx.Network(err)
	}
	return body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// decodeOrderAck is lenient: a missing or malformed body yields a zero value,
// and numeric order numbers are accepted.
func decodeOrderAck(body []byte) model.OrderResponse {
	var raw struct {
		OrderNumber json.RawMessage `json:"order_number"`
		Message     string          `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.OrderResponse{}
	}
	var number string
	if !isAbsent(raw.OrderNumber) {
		number = rawString(raw.OrderNumber)
	}
	return model.OrderResponse{OrderNumber: number, Message: raw.Message}
}

func logRejected(kind string, report ParseReport) {
	for _, rec := range report.Rejected {
		logx.Warn().Err(rec.Err).Str("kind", kind).Int("index", rec.Index).Str("id", rec.ID).Msg("rejected malformed listing record")
	}
}

var (
	_ model.CatalogSource = (*Client)(nil)
	_ model.OrderSender   = (*Client)(nil)
)
