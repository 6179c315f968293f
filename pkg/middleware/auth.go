package middleware

import (
	"context"
	"net/http"
	"time"

	"noticeboard/pkg/actor"
	. "noticeboard/pkg/common"
	"noticeboard/pkg/logger"
	"noticeboard/pkg/sessions"
)

type (
	IActorRepo interface {
		GetById(context.Context, int64) (*actor.Actor, error)
	}
	ISessionManager interface {
		TokenActor(string) (*actor.Actor, error)
	}
	Auth struct {
		ActorRepo      IActorRepo
		SessionManager ISessionManager
	}
)

func NewAuthMiddleware(sm ISessionManager, ar IActorRepo) *Auth {
	return &Auth{
		ActorRepo:      ar,
		SessionManager: sm,
	}
}

// Middleware resolves the token to an actor and puts it into the
// request context. Requests without a usable token go through as
// anonymous, the role gate decides later whether that's enough.
func (auth Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenActor, err := auth.SessionManager.TokenActor(authHeader)
		if err != nil {
			logger.Log(r.Context()).Errorf("can't get actor from token: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		repoCtx, repoCtxCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer repoCtxCancel()
		a, err := auth.ActorRepo.GetById(repoCtx, tokenActor.Id)
		if err != nil {
			logger.Log(r.Context()).Errorf("auth: can't get the actor from repo: %v", err)
			WriteMsg(w, "actor not found", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), sessions.SessionKey, a)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
