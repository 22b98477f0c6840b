package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftarena/lobby-server/internal/auth"
	"github.com/draftarena/lobby-server/internal/config"
	"github.com/draftarena/lobby-server/internal/core"
	"github.com/draftarena/lobby-server/internal/match"
	"github.com/draftarena/lobby-server/internal/store/sqlite"
)

type testEnv struct {
	ts    *httptest.Server
	coord *match.InMemory
}

// startTestServer wires the full stack over an in-memory coordinator and
// sqlite store, with a fast broadcaster running.
func startTestServer(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.New(io.Discard)

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret-change-me"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	coord := match.NewInMemory()
	now := time.Now()
	round, err := match.NewRound(1, now, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("seed round: %v", err)
	}
	coord.SetRound(round)

	registry := core.NewRegistry()
	router := core.NewRouter(coord, &logger)
	gateway := core.NewGateway(authService, registry, router, coord, time.Second, &logger)
	broadcaster := core.NewBroadcaster(registry, coord, 25*time.Millisecond, time.Second, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go broadcaster.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"
	server := NewServer(gateway, authService, st, &cfg, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, coord: coord}
}

// registerUser creates an account through the REST API and returns its token.
func (e *testEnv) registerUser(t *testing.T, username string) string {
	t.Helper()

	body, _ := json.Marshal(RegisterRequest{Username: username, Password: "password123"})
	resp, err := e.ts.Client().Post(e.ts.URL+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		t.Fatalf("register status: %d", resp.StatusCode)
	}
	var out AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out.Token
}
