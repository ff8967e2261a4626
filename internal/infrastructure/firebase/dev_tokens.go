package firebase

import (
	"context"
	"errors"
	"strings"
)

// DevTokenVerifier accepts "dev:<uid>" tokens. It is only wired when the server
// runs in development without a Firebase project.
type DevTokenVerifier struct{}

const devTokenPrefix = "dev:"

func (DevTokenVerifier) VerifyToken(ctx context.Context, token string) (string, error) {
	uid := strings.TrimPrefix(token, devTokenPrefix)
	if uid == token || uid == "" {
		return "", errors.New("invalid development token")
	}
	return uid, nil
}

func (DevTokenVerifier) TestConnection(ctx context.Context) error {
	return nil
}
