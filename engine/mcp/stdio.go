package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/telassist/telassist/engine/core"
	"github.com/telassist/telassist/engine/llm"
)

const clientName = "telassist"

// StdioConnector spawns a tool server subprocess per session and talks to
// it over stdio.
type StdioConnector struct {
	command string
	args    []string
	env     []string
	version string
}

// NewStdioConnector configures a connector for the given server command.
func NewStdioConnector(command string, args []string, env []string, version string) *StdioConnector {
	if version == "" {
		version = "0.0.0"
	}
	return &StdioConnector{command: command, args: args, env: env, version: version}
}

// Connect implements Connector. A failed initialize closes the transport
// before returning.
func (c *StdioConnector) Connect(ctx context.Context) (Session, error) {
	cli, err := mcpclient.NewStdioMCPClient(c.command, c.env, c.args...)
	if err != nil {
		return nil, core.NewError(err, "TOOL_SERVER_UNAVAILABLE", map[string]any{"command": c.command})
	}

	initReq := mcpgo.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpgo.Implementation{Name: clientName, Version: c.version}
	initReq.Params.Capabilities = mcpgo.ClientCapabilities{}

	if _, err := cli.Initialize(ctx, initReq); err != nil {
		_ = cli.Close()
		return nil, core.NewError(err, "TOOL_SERVER_INIT_FAILED", map[string]any{"command": c.command})
	}
	return &stdioSession{cli: cli}, nil
}

type stdioSession struct {
	cli *mcpclient.Client
}

func (s *stdioSession) ListTools(ctx context.Context) ([]llm.ToolDefinition, error) {
	result, err := s.cli.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defs := make([]llm.ToolDefinition, 0, len(result.Tools))
	for i := range result.Tools {
		defs = append(defs, toToolDefinition(&result.Tools[i]))
	}
	return defs, nil
}

func (s *stdioSession) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := s.cli.CallTool(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tool %q call failed: %w", name, err)
	}
	text := flattenContent(result.Content)
	if result.IsError {
		return "", fmt.Errorf("tool %q reported an error: %s", name, text)
	}
	return text, nil
}

func (s *stdioSession) Close() error {
	return s.cli.Close()
}

// toToolDefinition maps an MCP tool descriptor onto the adapter's JSON
// Schema shape.
func toToolDefinition(t *mcpgo.Tool) llm.ToolDefinition {
	schemaType := t.InputSchema.Type
	if schemaType == "" {
		schemaType = "object"
	}
	params := map[string]any{
		"type":       schemaType,
		"properties": t.InputSchema.Properties,
	}
	if len(t.InputSchema.Required) > 0 {
		params["required"] = t.InputSchema.Required
	}
	return llm.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}
}

func flattenContent(content []mcpgo.Content) string {
	var sb strings.Builder
	for _, item := range content {
		if text, ok := mcpgo.AsTextContent(item); ok {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(text.Text)
		}
	}
	return sb.String()
}
