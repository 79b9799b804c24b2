package main

import (
	"fmt"
	"net/http"
	"strings"

	"tecawayBack/internal/handlers"
	"tecawayBack/internal/models"
)

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func makeResponseJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// bearerActor reads the access token from the Authorization header.
func (app *application) bearerActor(r *http.Request) (models.Actor, bool, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return models.Actor{}, false, nil
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Actor{}, true, models.ErrInvalidToken
	}

	claims, err := app.tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return models.Actor{}, true, err
	}
	return models.Actor{UserID: claims.UserID, Role: claims.Role}, true, nil
}

func (app *application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, present, err := app.bearerActor(r)
		if !present {
			http.Error(w, "Authorization header missing or invalid", http.StatusUnauthorized)
			return
		}
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(handlers.WithActor(r.Context(), actor)))
	})
}

// optionalAuth attaches the caller when a valid token is sent and lets anonymous requests through.
func (app *application) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, present, err := app.bearerActor(r)
		if present && err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		if present {
			r = r.WithContext(handlers.WithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole must run after requireAuth.
func (app *application) requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := handlers.ActorFrom(r.Context())
			if !ok || actor.Role != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
