// Package mcp connects the assistant to an external tool-execution server
// speaking the Model Context Protocol. Sessions are acquired fresh per
// request and released unconditionally; the tool catalog is never cached
// across calls because the server may change it at any time.
package mcp

import (
	"context"

	"github.com/telassist/telassist/engine/llm"
)

// Session is one scoped connection to a tool server.
type Session interface {
	// ListTools fetches the server's current tool catalog.
	ListTools(ctx context.Context) ([]llm.ToolDefinition, error)
	// CallTool invokes a named tool. Both transport failures and
	// tool-reported errors are returned as errors so the caller can
	// decide how to surface them.
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	// Close releases the session. Safe to call on every exit path.
	Close() error
}

// Connector opens tool-server sessions.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}
