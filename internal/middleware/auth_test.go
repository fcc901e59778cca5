package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyunwoopark/meritpoint/internal/auth"
	"github.com/hyunwoopark/meritpoint/internal/database"
	"github.com/hyunwoopark/meritpoint/internal/model"
	"github.com/hyunwoopark/meritpoint/internal/store"
)

var testSecret = []byte("test-secret")

func setupAuthTest(t *testing.T) (*store.ActorStore, http.Handler) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	actors := store.NewActorStore(db)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.ActorFromContext(r.Context())
		if !ok {
			t.Error("expected actor on request context")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(actor.SN))
	})
	return actors, RequireAuth(actors, testSecret)(next)
}

func requestWithToken(t *testing.T, token string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/points", nil)
	if token != "" {
		r.AddCookie(&http.Cookie{Name: tokenCookieName, Value: token})
	}
	return r
}

func TestRequireAuthNoCookie(t *testing.T) {
	_, handler := setupAuthTest(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, ""))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthBadToken(t *testing.T) {
	_, handler := setupAuthTest(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, "not.a.token"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthUnknownActor(t *testing.T) {
	_, handler := setupAuthTest(t)

	token, err := auth.Sign(testSecret, "99-99999999", "Ghost", model.RoleMember, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, token))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthInactiveAccounts(t *testing.T) {
	actors, handler := setupAuthTest(t)

	cases := []struct {
		name  string
		sn    string
		setup func(sn string)
	}{
		{"unverified", "25-70000001", func(sn string) {}},
		{"rejected", "25-70000002", func(sn string) {
			actors.Verify(sn, false)
		}},
		{"deleted", "25-70000003", func(sn string) {
			actors.Verify(sn, true)
			actors.SetDeleted(sn, true)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actors.Create(tc.sn, "Test", model.RoleMember)
			tc.setup(tc.sn)

			token, err := auth.Sign(testSecret, tc.sn, "Test", model.RoleMember, time.Hour)
			if err != nil {
				t.Fatalf("sign: %v", err)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, requestWithToken(t, token))
			if w.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", w.Code)
			}
		})
	}
}

func TestRequireAuthActiveActor(t *testing.T) {
	actors, handler := setupAuthTest(t)

	actors.Create("25-70000001", "Kim Cheolsu", model.RoleMember)
	actors.Verify("25-70000001", true)

	token, err := auth.Sign(testSecret, "25-70000001", "Kim Cheolsu", model.RoleMember, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithToken(t, token))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "25-70000001" {
		t.Errorf("body = %q, want actor sn", got)
	}
}
