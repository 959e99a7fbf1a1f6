package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/travelops/traveler-registry/internal/core/domain"
)

// Manager issues and verifies HS256 session tokens carrying the signed-in
// identity. Sessions are stateless; logout is just dropping the cookie.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *Manager) Issue(id domain.Identity) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": id.Username,
		"name":     id.Name,
		"iat":      now.Unix(),
		"exp":      now.Add(m.ttl).Unix(),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) Verify(token string) (domain.Identity, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Identity{}, domain.WrapError(domain.ErrUnauthorized, "verify session", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.WrapError(domain.ErrUnauthorized, "verify session",
			errors.New("unexpected claims type"))
	}
	username, _ := claims["username"].(string)
	name, _ := claims["name"].(string)
	if username == "" {
		return domain.Identity{}, domain.WrapError(domain.ErrUnauthorized, "verify session",
			errors.New("token has no subject"))
	}
	return domain.Identity{Name: name, Username: username}, nil
}
