package mcp

import (
	"context"
	"os/exec"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// toolClient is the part of *client.Client the process manager drives.
type toolClient interface {
	Initialize(ctx context.Context, request mcptypes.InitializeRequest) (*mcptypes.InitializeResult, error)
	ListTools(ctx context.Context, request mcptypes.ListToolsRequest) (*mcptypes.ListToolsResult, error)
	CallTool(ctx context.Context, request mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error)
	Close() error
}

// ServerProcess is a running MCP server and the tools it listed at start.
type ServerProcess struct {
	ID      string
	Command string
	Args    []string
	Process *exec.Cmd
	Client  toolClient
	Tools   []mcptypes.Tool
	Running bool
}
