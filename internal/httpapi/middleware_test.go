package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/johdel/machinery/internal/auth"
)

type fakeAuthClient struct {
	sessions map[string]*auth.Session
}

func (f *fakeAuthClient) GetSession(_ context.Context, token string) (*auth.Session, error) {
	if sess, ok := f.sessions[token]; ok {
		return sess, nil
	}
	return nil, auth.ErrNoSession
}

func (f *fakeAuthClient) SignInWithPassword(context.Context, string, string) (*auth.Session, error) {
	return nil, auth.ErrNoSession
}

func (f *fakeAuthClient) SignOut(context.Context, string) error { return nil }

type fakeProfiles struct {
	roles map[string]string
	err   error
}

func (f *fakeProfiles) Role(_ context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		return "", auth.ErrNoSession
	}
	return role, nil
}

func (f *fakeProfiles) List(context.Context, int) ([]auth.Profile, error) {
	return nil, nil
}

func guardedRouter(client auth.Client, profiles auth.ProfileRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.GET("/checkout", RequireSession(client, log), func(c *gin.Context) {
		c.String(http.StatusOK, "checkout")
	})
	r.GET("/api/v1/orders", RequireSession(client, log), func(c *gin.Context) {
		c.String(http.StatusOK, "orders")
	})
	r.GET("/admin/orders", RequireSession(client, log), RequireRole(auth.RoleAdmin, profiles, log), func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	return r
}

func TestRequireSession(t *testing.T) {
	client := &fakeAuthClient{sessions: map[string]*auth.Session{
		"tok-1": {UserID: "u-1", Email: "ama@example.com"},
	}}
	r := guardedRouter(client, &fakeProfiles{})

	t.Run("no session on a browser navigation redirects to login with the path preserved", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
		}
		if got, want := w.Header().Get("Location"), "/login?redirectTo=%2Fcheckout"; got != want {
			t.Fatalf("Location = %q, want %q", got, want)
		}
	})

	t.Run("no session on an api call gets a 401 envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("bearer token passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		req.Header.Set("Authorization", "Bearer tok-1")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("cookie token passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "tok-1"})
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("stale token is rejected on the next navigation", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/checkout", nil)
		req.Header.Set("Authorization", "Bearer revoked")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
		}
	})
}

func TestRequireRole(t *testing.T) {
	client := &fakeAuthClient{sessions: map[string]*auth.Session{
		"admin-tok":    {UserID: "u-admin"},
		"customer-tok": {UserID: "u-cust"},
	}}
	profiles := &fakeProfiles{roles: map[string]string{
		"u-admin": auth.RoleAdmin,
		"u-cust":  "customer",
	}}
	r := guardedRouter(client, profiles)

	t.Run("admin role passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer admin-tok")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("valid session with customer role lands on the unauthorized page", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer customer-tok")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
		}
		if got := w.Header().Get("Location"); got != "/unauthorized" {
			t.Fatalf("Location = %q, want /unauthorized", got)
		}
	})

	t.Run("customer role on an api call gets a 403 envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer customer-tok")
		req.Header.Set("Accept", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("role lookup failure is treated as unauthorized", func(t *testing.T) {
		broken := &fakeProfiles{err: errors.New("profiles unavailable")}
		rb := guardedRouter(client, broken)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer admin-tok")
		rb.ServeHTTP(w, req)

		if w.Code != http.StatusFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusFound)
		}
		if got := w.Header().Get("Location"); got != "/unauthorized" {
			t.Fatalf("Location = %q, want /unauthorized", got)
		}
	})
}

func TestCartKeyCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CartKey())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, cartKey(c))
	})

	t.Run("first visit mints a key", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Body.String() == "" {
			t.Fatal("expected a cart key in context")
		}
		found := false
		for _, ck := range w.Result().Cookies() {
			if ck.Name == "cart_key" && ck.Value == w.Body.String() {
				found = true
			}
		}
		if !found {
			t.Fatal("cart_key cookie not set to the minted key")
		}
	})

	t.Run("existing key is reused", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "cart_key", Value: "device-7"})
		r.ServeHTTP(w, req)

		if got := w.Body.String(); got != "device-7" {
			t.Fatalf("cart key = %q, want device-7", got)
		}
		if len(w.Result().Cookies()) != 0 {
			t.Fatal("no new cookie should be set when one exists")
		}
	})
}
