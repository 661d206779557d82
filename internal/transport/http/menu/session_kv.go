package menu

import (
	"github.com/gorilla/sessions"

	"github.com/murkotick/digital-menu-service/internal/pkg/kv"
)

// sessionKV exposes a cookie session as a kv.Store so the cart engine can
// persist into it. Changes reach the client only after the session is saved.
type sessionKV struct {
	s *sessions.Session
}

var _ kv.Store = sessionKV{}

func (k sessionKV) Get(key string) (string, bool, error) {
	v, ok := k.s.Values[key].(string)
	return v, ok, nil
}

func (k sessionKV) Set(key, value string) error {
	k.s.Values[key] = value
	return nil
}

func (k sessionKV) Remove(key string) error {
	delete(k.s.Values, key)
	return nil
}
