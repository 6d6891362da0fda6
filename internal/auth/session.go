package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Режимы аутентификации. function_key — статический ключ в заголовке,
// oauth — client credentials с bearer-токеном, none — без заголовков (дев-режим).
const (
	ModeFunctionKey = "function_key"
	ModeOAuth       = "oauth"
	ModeNone        = "none"
)

// ErrNoSession — запрос к API без активной сессии
var ErrNoSession = errors.New("no active session")

// Options — параметры создания сессии (значения из конфига)
type Options struct {
	Mode        string
	FunctionKey string

	ClientID     string
	ClientSecret string
	TokenURL     string
	Scope        string
}

// Session — общий на процесс auth-контекст. Создаётся на старте (или после
// логина), уничтожается на логауте. Ресурсный клиент только читает её.
type Session struct {
	mu      sync.RWMutex
	mode    string
	account string
	apply   func(*http.Request) error // nil = сессии нет
}

// Login устанавливает сессию. Для oauth токен берётся лениво и
// обновляется самим oauth2.TokenSource по мере истечения.
func Login(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{mode: opts.Mode}
	switch opts.Mode {
	case ModeNone:
		s.account = "anonymous"
		s.apply = func(*http.Request) error { return nil }

	case ModeFunctionKey:
		key := strings.TrimSpace(opts.FunctionKey)
		if key == "" {
			return nil, fmt.Errorf("auth: function key is empty")
		}
		s.account = "function-key"
		s.apply = func(req *http.Request) error {
			req.Header.Set("x-functions-key", key)
			return nil
		}

	case ModeOAuth:
		if opts.ClientID == "" || opts.TokenURL == "" {
			return nil, fmt.Errorf("auth: oauth requires client id and token url")
		}
		cc := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		if opts.Scope != "" {
			cc.Scopes = strings.Fields(opts.Scope)
		}
		ts := oauth2.ReuseTokenSource(nil, cc.TokenSource(ctx))
		s.account = opts.ClientID
		s.apply = func(req *http.Request) error {
			tok, err := ts.Token()
			if err != nil {
				return fmt.Errorf("auth: token: %w", err)
			}
			tok.SetAuthHeader(req)
			return nil
		}

	default:
		return nil, fmt.Errorf("auth: unknown mode %q", opts.Mode)
	}
	return s, nil
}

// Active — есть ли живая сессия
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apply != nil
}

// Account — идентичность текущей сессии (для шапки UI)
func (s *Session) Account() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account
}

// Apply проставляет авторизацию на запрос; ErrNoSession после логаута
func (s *Session) Apply(req *http.Request) error {
	s.mu.RLock()
	apply := s.apply
	s.mu.RUnlock()
	if apply == nil {
		return ErrNoSession
	}
	return apply(req)
}

// Logout сбрасывает сессию; дальнейшие запросы получают ErrNoSession
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply = nil
	s.account = ""
}
