package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/Beka01247/brewline/internal/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		claims, err := app.tokens.Parse(token)
		if err != nil {
			app.unauthorizedErrorResponse(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole lets through callers whose role is at least required. Staff
// roles are read from the stored profile so a demotion applies before the
// token expires.
func (app *application) requireRole(required auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := getClaims(r)
			if claims == nil {
				app.unauthorizedErrorResponse(w, r, errors.New("no claims in context"))
				return
			}

			if !claims.Role.AtLeast(required) {
				app.forbiddenResponse(w, r)
				return
			}

			if required.AtLeast(auth.RoleWaiter) {
				state, err := app.authService.Session(r.Context(), claims)
				if err != nil {
					app.unauthorizedErrorResponse(w, r, err)
					return
				}
				if state.Phase != auth.PhaseConfirmed {
					app.serviceUnavailableResponse(w, r, errors.New("could not confirm staff role"))
					return
				}
				if !state.Identity.Role.AtLeast(required) {
					app.logger.Warnw("stored role below token role", "user_id", claims.UserID, "token_role", claims.Role, "stored_role", state.Identity.Role)
					app.forbiddenResponse(w, r)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(r)); !allow {
				app.rateLimitExceededResponse(w, r, retryAfter)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func getClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsContextKey).(*auth.Claims)
	return claims
}

// callerIdentity is the identity carried by the request token.
func callerIdentity(r *http.Request) auth.Identity {
	claims := getClaims(r)
	if claims == nil {
		return auth.Identity{}
	}

	return auth.Identity{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   claims.Role,
	}
}

// extractBearerToken reads the Authorization header. Browsers cannot set
// headers on EventSource requests, so an access_token query parameter is
// accepted as well.
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("access_token"); token != "" {
			return token, nil
		}
		return "", errors.New("authorization header missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization format")
	}

	return parts[1], nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
