package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/setlist2spotify/internal/shared"
	tu "github.com/desertthunder/setlist2spotify/internal/testing"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func TestChiRouter(t *testing.T) {
	t.Run("middleware runs in registration order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/x", okHandler("x"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, "x", w.Body.String())
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("Handler registers every route", func(t *testing.T) {
		r := NewRouter()
		r.Handler(NewOAuthHandler(&fakeExchanger{}, "s", "/auth/callback"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/callback?state=wrong", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("chi middleware fits", func(t *testing.T) {
		r := NewRouter()
		r.Use(middleware.RequestID, middleware.Recoverer)
		r.Handle(http.MethodGet, "/panic", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	r := NewRouter()
	r.Use(middleware.RequestID, RequestLogger(shared.NewLogger(&logs)))
	r.Handle(http.MethodGet, "/ok", okHandler("fine"))
	r.Handle(http.MethodGet, "/bad", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bad", nil))

	out := logs.String()
	assert.Contains(t, out, "path=/ok")
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "bytes=4")
	assert.Contains(t, out, "request_id=")
	assert.Contains(t, out, "level=warn")
	assert.Contains(t, out, "status=400")
}

func TestCORS(t *testing.T) {
	origins := []string{"http://localhost:3000"}
	r := NewRouter()
	r.Use(CORS(origins))
	r.Handle(http.MethodPost, "/setlists", okHandler("{}"))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/setlists", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "{}", w.Body.String())
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/setlists", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "POST", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "content-type", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/setlists", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "{}", w.Body.String())
	})
}

type fakeExchanger struct {
	token *oauth2.Token
	err   error
	code  string
}

func (f *fakeExchanger) Exchange(_ context.Context, code string, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	f.code = code
	return f.token, f.err
}

func TestOAuthHandler(t *testing.T) {
	t.Run("exchanges the code", func(t *testing.T) {
		ex := &fakeExchanger{token: &oauth2.Token{AccessToken: "access"}}
		h := NewOAuthHandler(ex, "state-1", "")
		assert.Equal(t, []string{"/callback"}, h.Routes())

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?state=state-1&code=abc", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Spotify connected")
		assert.Equal(t, "abc", ex.code)

		res := <-h.Result()
		require.NoError(t, res.Error())
		assert.Equal(t, "access", res.Token.AccessToken)

		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?state=state-1&code=abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "second callback is rejected")
	})

	tests := []struct {
		name  string
		query string
		err   error
		code  int
		want  string
	}{
		{name: "bad state", query: "state=other&code=abc", code: http.StatusBadRequest, want: "invalid state"},
		{name: "denied", query: "state=s&error=access_denied", code: http.StatusBadRequest, want: "access_denied"},
		{name: "exchange fails", query: "state=s&code=abc", err: errors.New("bad code"), code: http.StatusInternalServerError, want: "token exchange failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOAuthHandler(&fakeExchanger{err: tt.err}, "s", "/callback")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			assert.Equal(t, tt.code, w.Code)
			res := <-h.Result()
			assert.ErrorContains(t, res.Error(), tt.want)
			assert.Nil(t, res.Token)
		})
	}
}

func TestServe(t *testing.T) {
	addr := tu.FreeAddr(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, addr, okHandler("up"), shared.NewLogger(&bytes.Buffer{}))
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
