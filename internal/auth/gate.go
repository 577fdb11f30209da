package auth

import "strings"

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value. Only the
// literal "Bearer " scheme is accepted.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingCredentials
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrMissingCredentials
	}
	return token, nil
}

// Authorize runs the full gate on a raw header value: credential extraction,
// token validation and the access-kind check. Any error is terminal for the
// request.
func (tm *TokenManager) Authorize(header string) (*Identity, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return tm.validateKind(token, TokenKindAccess)
}
