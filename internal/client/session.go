package client

import "sync"

// Session 客户端登录态：登录时 Set，登出或收到 401 时 Clear
type Session struct {
	mu           sync.RWMutex
	token        string
	refreshToken string
}

func (s *Session) Set(token, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.refreshToken = refreshToken
}

func (s *Session) Clear() {
	s.Set("", "")
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
