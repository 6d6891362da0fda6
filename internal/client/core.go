package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"labtrack/internal/auth"
)

// StatusError — не-2xx ответ API. 404 отдельно не выделяем здесь:
// перевод 404 в сентинелы — забота ресурса, не транспорта.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Status)
}

// isNotFound — 404-класс
func isNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Code == http.StatusNotFound
}

// Core — общий HTTP-транспорт: базовый URL + сессия для авторизации.
// Таймаутов своих не ставит, отмена — через context вызывающего.
type Core struct {
	baseURL string
	http    *http.Client
	session *auth.Session
	log     *zap.Logger
}

func NewCore(baseURL string, session *auth.Session, log *zap.Logger) *Core {
	if log == nil {
		log = zap.NewNop()
	}
	return &Core{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: session,
		log:     log,
	}
}

// do выполняет запрос и возвращает сырое JSON-тело (nil для 204)
func (c *Core) do(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		if err := c.session.Apply(req); err != nil {
			return nil, err
		}
	}

	c.log.Debug("api request", zap.String("method", method), zap.String("endpoint", endpoint))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("api request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	return raw, nil
}

func (c *Core) get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}
func (c *Core) post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, endpoint, body)
}
func (c *Core) put(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, endpoint, body)
}
func (c *Core) patch(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, endpoint, body)
}
func (c *Core) delete(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil)
}
