package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/core/ports"
)

// LoginUseCase matches submitted credentials against the credential sheet
// and mints a session token for the matched identity.
type LoginUseCase struct {
	creds  ports.CredentialSource
	tokens ports.TokenSource
}

func NewLoginUseCase(creds ports.CredentialSource, tokens ports.TokenSource) *LoginUseCase {
	return &LoginUseCase{creds: creds, tokens: tokens}
}

func (uc *LoginUseCase) Login(ctx context.Context, username, password string) (domain.Identity, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Identity{}, "", domain.WrapError(domain.ErrValidation, "login",
			errors.New("username and password are required"))
	}

	users, err := uc.creds.ListCredentials(ctx)
	if err != nil {
		return domain.Identity{}, "", domain.WrapError(domain.ErrUpstream, "load credentials", err)
	}

	for _, u := range users {
		if u.Username != username || u.Password != password {
			continue
		}
		id := domain.Identity{Name: u.Name, Username: u.Username}
		token, err := uc.tokens.Issue(id)
		if err != nil {
			return domain.Identity{}, "", domain.WrapError(domain.ErrUpstream, "issue session", err)
		}
		return id, token, nil
	}

	return domain.Identity{}, "", domain.WrapError(domain.ErrUnauthorized, "login",
		errors.New("invalid username or password"))
}
