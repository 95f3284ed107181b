package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yapli/yapli-server/internal/auth"
	"github.com/yapli/yapli-server/internal/config"
	"github.com/yapli/yapli-server/internal/core"
	"github.com/yapli/yapli-server/internal/store"
	"github.com/yapli/yapli-server/internal/store/sqlite"
)

// testEnv bundles everything a transport test needs.
type testEnv struct {
	ts    *httptest.Server
	store store.Store
	auth  *auth.Service
	coord *core.Coordinator
	cfg   *config.Config
}

// newTestEnv spins up the full HTTP surface on an in-memory store.
// Presence grace is zero so assertions never race the republish timer.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)

	cfg := config.Default()
	cfg.PresenceGrace = 0
	cfg.AllowedOrigins = []string{"*"}

	logger := zerolog.Nop()
	coord := core.NewCoordinator(&logger, core.WithPresenceGrace(cfg.PresenceGrace))

	server := NewServer(coord, authService, st, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, store: st, auth: authService, coord: coord, cfg: &cfg}
}

// seedRoom creates a host (if needed) and a room with the given code.
func (e *testEnv) seedRoom(t *testing.T, code string) *store.Room {
	t.Helper()
	ctx := context.Background()

	owner, err := e.store.GetUserByUsername(ctx, "seed-host")
	if err != nil {
		owner, err = e.store.CreateUser(ctx, "seed-host", "hash")
		if err != nil {
			t.Fatalf("failed to seed host: %v", err)
		}
	}

	room, err := e.store.CreateRoom(ctx, code, "seeded", owner.ID)
	if err != nil {
		t.Fatalf("failed to seed room %q: %v", code, err)
	}
	return room
}
