package httpapi

import (
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/fireplan/fireplan-backend/internal/config"
)

const tokenIssuer = "fireplan-backend"

// AuthService implements the session/auth boundary: it exchanges the shared
// API token for a short-lived JWT, reports session status and gates the
// planning endpoints. The planning core never sees any of this.
type AuthService struct {
	apiToken string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService builds the auth boundary from configuration. A nil clock
// defaults to time.Now.
func NewAuthService(cfg config.AuthConfig, now func() time.Time) *AuthService {
	if now == nil {
		now = time.Now
	}
	ttl := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthService{
		apiToken: cfg.APIToken,
		secret:   []byte(cfg.JWTSecret),
		ttl:      ttl,
		now:      now,
	}
}

type loginRequest struct {
	Token string `json:"token"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresAt   string `json:"expiresAt"`
}

type sessionResponse struct {
	Status string       `json:"status"`
	User   *sessionUser `json:"user,omitempty"`
}

type sessionUser struct {
	ID string `json:"id"`
}

// Login exchanges the configured API token for a signed session token.
func (a *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		return
	}
	if req.Token == "" || req.Token != a.apiToken {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid API token")
		return
	}

	issued := a.now()
	expires := issued.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "planner",
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "TOKEN_SIGNING_FAILED", "could not issue session token")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		AccessToken: signed,
		ExpiresAt:   expires.UTC().Format(time.RFC3339),
	})
}

// Logout acknowledges the sign-out intent. Tokens are stateless, so there is
// nothing to revoke server-side; clients drop the token.
func (a *AuthService) Logout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "signedOut"})
}

// Session reports the auth-provider status contract:
// authenticated/unauthenticated plus the user identity when known.
func (a *AuthService) Session(w http.ResponseWriter, r *http.Request) {
	claims, err := a.claimsFromRequest(r)
	if err != nil {
		respondJSON(w, http.StatusOK, sessionResponse{Status: "unauthenticated"})
		return
	}
	respondJSON(w, http.StatusOK, sessionResponse{
		Status: "authenticated",
		User:   &sessionUser{ID: claims.Subject},
	})
}

// Middleware rejects requests without a valid bearer token.
func (a *AuthService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.claimsFromRequest(r); err != nil {
			respondError(w, http.StatusUnauthorized, "UNAUTHENTICATED", err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *AuthService) claimsFromRequest(r *http.Request) (*jwt.RegisteredClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errMissingAuth
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errMalformedAuth
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(parts[1], claims,
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, errInvalidToken
	}
	return claims, nil
}

var (
	errMissingAuth   = &authError{"missing authorization header"}
	errMalformedAuth = &authError{"authorization header must be a bearer token"}
	errInvalidToken  = &authError{"invalid or expired token"}
)

type authError struct{ msg string }

func (e *authError) Error() string { return e.msg }
