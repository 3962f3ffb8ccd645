package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"launchpad/crypto"
)

const clockSkew = 2 * time.Minute

type callerCtxKey struct{}

// authenticator turns an HS256 bearer token into the caller identity. The
// token subject carries the caller's bech32 account address.
type authenticator struct {
	secret []byte
	issuer string
}

func newAuthenticator(secret, issuer string) *authenticator {
	return &authenticator{
		secret: []byte(strings.TrimSpace(secret)),
		issuer: strings.TrimSpace(issuer),
	}
}

func extractBearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// middleware attaches the caller when a valid token is present. Requests
// without a token continue anonymously; a bad token is rejected outright.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if strings.TrimSpace(header) == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := extractBearer(header)
		if token == "" {
			writeError(w, http.StatusUnauthorized, nil, codeUnauthorized, "Authorization header must use Bearer scheme", nil)
			return
		}
		caller, err := a.identify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, nil, codeUnauthorized, "invalid bearer token", err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerCtxKey{}, caller)))
	})
}

func (a *authenticator) identify(tokenString string) ([20]byte, error) {
	var caller [20]byte
	if len(a.secret) == 0 {
		return caller, errors.New("auth secret not configured")
	}
	opts := []jwt.ParserOption{
		jwt.WithLeeway(clockSkew),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return caller, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return caller, errors.New("token invalid")
	}
	addr, err := crypto.DecodeAddress(claims.Subject)
	if err != nil {
		return caller, fmt.Errorf("subject: %w", err)
	}
	if addr.Prefix() != crypto.AccountPrefix {
		return caller, fmt.Errorf("subject must be an %s account", crypto.AccountPrefix)
	}
	return addr.Bytes20(), nil
}

// IssueToken signs a caller token for the supplied account. Operators use it
// to mint credentials; tests use it to authenticate requests.
func IssueToken(secret, issuer string, caller [20]byte, ttl time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("auth secret not configured")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   crypto.FormatAccount(caller),
		Issuer:    strings.TrimSpace(issuer),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(strings.TrimSpace(secret)))
}

func callerFrom(ctx context.Context) ([20]byte, bool) {
	caller, ok := ctx.Value(callerCtxKey{}).([20]byte)
	return caller, ok
}

func callerKey(caller [20]byte) string {
	return crypto.FormatAccount(caller)
}
