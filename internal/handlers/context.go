package handlers

import (
	"context"
	"net/http"

	"tecawayBack/internal/models"
)

type ctxKey string

const (
	userIDKey ctxKey = "user_id"
	roleKey   ctxKey = "role"
)

// WithActor stores the authenticated caller in ctx.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	ctx = context.WithValue(ctx, userIDKey, actor.UserID)
	return context.WithValue(ctx, roleKey, actor.Role)
}

// ActorFrom returns the caller stored by WithActor; ok is false for anonymous requests.
func ActorFrom(ctx context.Context) (models.Actor, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	if !ok || id == 0 {
		return models.Actor{}, false
	}
	role, _ := ctx.Value(roleKey).(string)
	return models.Actor{UserID: id, Role: role}, true
}

func requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := ActorFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return actor, ok
}
