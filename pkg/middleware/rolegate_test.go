package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"noticeboard/pkg/actor"
	"noticeboard/pkg/role"
	"noticeboard/pkg/sessions"
)

func TestRequireRole(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	reqAs := func(a *actor.Actor) *http.Request {
		r := httptest.NewRequest("POST", "/api/posts", nil)
		if a == nil {
			return r
		}
		ctx := context.WithValue(r.Context(), sessions.SessionKey, a)
		return r.WithContext(ctx)
	}

	gate := RequireRole(ok, role.SuperAdmin, role.SubAdmin)

	t.Run("anonymous gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		gate(w, reqAs(nil))
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		w := httptest.NewRecorder()
		gate(w, reqAs(&actor.Actor{Id: 4, Role: role.User}))
		assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	})

	t.Run("listed role passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		gate(w, reqAs(&actor.Actor{Id: 2, Role: role.SubAdmin}))
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("superadmin passes only where listed", func(t *testing.T) {
		w := httptest.NewRecorder()
		subadminOnly := RequireRole(ok, role.SubAdmin)
		subadminOnly(w, reqAs(&actor.Actor{Id: 1, Role: role.SuperAdmin}))
		assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	})

	t.Run("any authenticated actor passes RequireAuth", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAuth(ok)(w, reqAs(&actor.Actor{Id: 4, Role: role.User}))
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})
}
