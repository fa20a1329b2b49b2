package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"order-entry/config"
	"order-entry/errorx"
	"order-entry/models"
)

// Ack 远端接受订单时的确认
type Ack struct {
	StatusCode int
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type ackBody struct {
	Status  string `json:"status"`
	Result  string `json:"result"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// AppsScriptClient 表格 Web App 客户端
type AppsScriptClient struct {
	endpoint string
	client   *http.Client
}

func NewAppsScriptClient(endpoint string, timeout time.Duration) *AppsScriptClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AppsScriptClient{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

// Configured 地址为空或占位符时为演示模式
func (c *AppsScriptClient) Configured() bool {
	return !config.IsDemoEndpoint(c.endpoint)
}

// Send 提交订单；非 2xx 或响应体中 status/result 为 error 都视为失败
func (c *AppsScriptClient) Send(ctx context.Context, order models.Order) (*Ack, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &errorx.TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &errorx.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &errorx.TransportError{StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &errorx.TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(raw))),
		}
	}

	ack := &Ack{StatusCode: resp.StatusCode}
	var parsed ackBody
	if len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &parsed) == nil {
		status := parsed.Status
		if status == "" {
			status = parsed.Result
		}
		if strings.EqualFold(status, "error") {
			msg := parsed.Message
			if msg == "" {
				msg = parsed.Error
			}
			return nil, &errorx.TransportError{StatusCode: resp.StatusCode, Err: errors.New("rejected: " + msg)}
		}
		ack.Status = status
		ack.Message = parsed.Message
	}
	return ack, nil
}

// FetchOrders GET <endpoint>?action=getOrders
func (c *AppsScriptClient) FetchOrders(ctx context.Context) ([]models.Order, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &errorx.TransportError{Err: err}
	}
	q := u.Query()
	q.Set("action", "getOrders")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &errorx.TransportError{Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &errorx.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &errorx.TransportError{StatusCode: resp.StatusCode, Err: errors.New("unexpected response")}
	}
	var orders []models.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, &errorx.TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode orders: %w", err)}
	}
	return orders, nil
}
