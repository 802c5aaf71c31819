package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/blogicum/internal/blog"
	"github.com/sujalbistaa/blogicum/internal/db"
	"github.com/sujalbistaa/blogicum/internal/media"
	"github.com/sujalbistaa/blogicum/internal/models"
	"github.com/sujalbistaa/blogicum/internal/ws"
)

const (
	testLoginURL   = "/auth/login"
	testAdminToken = "admin-secret"
)

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	svc     *blog.Service
	hub     *ws.Hub
	limiter *IPRateLimiter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimiter(t, NewIPRateLimiter(rate.Inf, 1))
}

func newTestServerWithLimiter(t *testing.T, limiter *IPRateLimiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Init("sqlite://" + filepath.Join(t.TempDir(), "blog.db"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	resolver, err := media.NewResolver("https://cdn.example.com/media/")
	require.NoError(t, err)

	svc := blog.NewService(database, blog.WithNotifier(&HubNotifier{Hub: hub, Media: resolver}))
	router := gin.New()
	env := &Env{Blog: svc, Media: resolver, LoginURL: testLoginURL}
	SetupRoutes(router, env, hub, limiter, RouteConfig{CORSOrigin: "*", AdminToken: testAdminToken})

	return &testServer{t: t, router: router, svc: svc, hub: hub, limiter: limiter}
}

// user creates an account and returns it with a bearer token.
func (s *testServer) user(username string) (*models.User, string) {
	s.t.Helper()
	ctx := context.Background()
	u, err := s.svc.CreateUser(ctx, blog.ProfileInput{Username: &username})
	require.NoError(s.t, err)
	token, err := s.svc.IssueToken(ctx, username)
	require.NoError(s.t, err)
	return u, token
}

func (s *testServer) post(author *models.User, in blog.PostInput) *models.Post {
	s.t.Helper()
	if in.Title == nil {
		title := "post"
		in.Title = &title
	}
	if in.Text == nil {
		text := "text"
		in.Text = &text
	}
	p, err := s.svc.CreatePost(context.Background(), blog.AsUser(author.ID), in)
	require.NoError(s.t, err)
	return p
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
}

func (s *testServer) do(r request) *httptest.ResponseRecorder {
	s.t.Helper()
	var body bytes.Buffer
	if r.body != nil {
		switch b := r.body.(type) {
		case string:
			body.WriteString(b)
		default:
			require.NoError(s.t, json.NewEncoder(&body).Encode(b))
		}
	}
	req := httptest.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
