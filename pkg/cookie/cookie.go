package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const minSecretLength = 32

// Manager signs and verifies cookie values with HMAC-SHA256. The cookie
// name is part of the signed input, so a value signed for one cookie can
// never be replayed under another name. Multiple secrets support key
// rotation: the first secret signs, all secrets verify.
type Manager struct {
	keys     [][]byte
	defaults Options
}

// New creates a Manager. Empty secrets are skipped; every remaining one
// must be at least 32 characters.
func New(secrets []string, opts ...Option) (*Manager, error) {
	var keys [][]byte
	for i, s := range secrets {
		if s == "" {
			continue
		}
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d is %d chars, minimum is %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		keys = append(keys, []byte(s))
	}
	if keys == nil {
		return nil, ErrNoSecret
	}

	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{keys: keys, defaults: applyOptions(defaults, opts)}, nil
}

// Sign produces the transport form of a cookie value:
// base64(value) "." base64(hmac(name, value)).
func (m *Manager) Sign(name, value string) (string, error) {
	sig := m.mac(m.keys[0], name, value)
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks a transport-form value and returns the plain value. Both
// tampered values and values signed for a different cookie name fail.
func (m *Manager) Verify(name, signed string) (string, error) {
	encoded, sig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	// All secrets verify so rotated-out keys keep old cookies valid.
	for _, key := range m.keys {
		want := m.mac(key, name, string(value))
		if subtle.ConstantTimeCompare(got, want) == 1 {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func (m *Manager) mac(key []byte, name, value string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return h.Sum(nil)
}

// Set writes a plain cookie with the manager's defaults.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	http.SetCookie(w, applyOptions(m.defaults, opts).cookie(name, value))
}

// SetSigned signs the value and writes it.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	signed, err := m.Sign(name, value)
	if err != nil {
		return err
	}
	m.Set(w, name, signed, opts...)
	return nil
}

// Get reads a plain cookie value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// GetSigned reads a cookie and verifies its signature.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.Verify(name, signed)
}

// Delete expires the named cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.defaults.cookie(name, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}
