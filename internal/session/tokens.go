package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/puzpuzpuz/xsync/v4"
)

const tokenName = "webui_call"

var ErrInvalidToken = errors.New("session: invalid call token")

// Tokens issues and checks the short-lived tokens a UI must present to
// open a bridge connection. Each token opens one connection.
type Tokens struct {
	sc   *securecookie.SecureCookie
	ttl  time.Duration
	used *xsync.Map[string, time.Time]
}

func NewTokens(hashKey []byte, ttl time.Duration) *Tokens {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(int(ttl / time.Second))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Tokens{
		sc:   sc,
		ttl:  ttl,
		used: xsync.NewMap[string, time.Time](),
	}
}

// Issue returns a new token bound to a random connection id.
func (t *Tokens) Issue() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return t.sc.Encode(tokenName, hex.EncodeToString(nonce))
}

// Verify returns the connection id carried by token and spends it; a
// second Verify of the same token fails.
func (t *Tokens) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	var id string
	if err := t.sc.Decode(tokenName, token, &id); err != nil {
		return "", ErrInvalidToken
	}

	now := time.Now()
	t.forgetExpired(now)
	if _, spent := t.used.LoadOrStore(id, now.Add(t.ttl)); spent {
		return "", ErrInvalidToken
	}
	return id, nil
}

// forgetExpired drops spent ids whose tokens securecookie would reject
// by age anyway. With no ttl tokens never expire, so nothing is dropped.
func (t *Tokens) forgetExpired(now time.Time) {
	if t.ttl <= 0 {
		return
	}
	t.used.Range(func(id string, expires time.Time) bool {
		if now.After(expires) {
			t.used.Delete(id)
		}
		return true
	})
}
