// Package testserver starts the full HTTP stack over an in-memory database.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/mcp"
	"github.com/rpggio/feeuplift/internal/store"
	"github.com/rpggio/feeuplift/internal/transport"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *store.DB
	Service *casefile.Service
}

// NewStore opens a migrated, seeded in-memory database private to the test.
func NewStore(t *testing.T) (*store.DB, *casefile.Service) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := store.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	svc := casefile.NewService(db, casefile.NewEngine(casefile.EngineOptions{}), 0, nil)
	require.NoError(t, svc.Bootstrap(ctx))
	return db, svc
}

// New starts the REST API with the MCP endpoint mounted at /mcp.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, svc := NewStore(t)

	mcpServer := mcp.NewServer(mcp.Config{Cases: svc, TransportMode: "http"})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(svc, mcpHandler, nil))
	t.Cleanup(server.Close)

	return &TestServer{Server: server, DB: db, Service: svc}
}

// URL joins path onto the server address.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
