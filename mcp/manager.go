// Package mcp starts the configured MCP servers and exposes their tools to
// the model through a tools.Registry.
package mcp

import (
	"context"
	"fmt"
	"sync"

	"coursebot/config"
	"coursebot/tools"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

type Manager struct {
	servers        []config.MCPServerConfig
	processManager *ProcessManager
	aggregator     *ToolAggregator

	mu      sync.RWMutex
	started []string
	failed  map[string]error
}

func NewManager(servers []config.MCPServerConfig) *Manager {
	return newManager(servers, NewProcessManager())
}

func newManager(servers []config.MCPServerConfig, pm *ProcessManager) *Manager {
	return &Manager{
		servers:        servers,
		processManager: pm,
		aggregator:     NewToolAggregator(pm),
		failed:         make(map[string]error),
	}
}

// StartAll starts every configured server. A server that fails to start is
// recorded in FailedServers and skipped; the others keep running.
func (m *Manager) StartAll(ctx context.Context) error {
	for _, server := range m.servers {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] StartAll: Starting server '%s'", server.ID)
		}

		if err := m.processManager.StartServer(ctx, server); err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[MCP] StartAll: ERROR starting server '%s': %v", server.ID, err)
			}
			m.mu.Lock()
			m.failed[server.ID] = err
			m.mu.Unlock()
			continue
		}

		m.mu.Lock()
		m.started = append(m.started, server.ID)
		m.mu.Unlock()
	}
	return nil
}

// Tools lists the tools of all running servers in configuration order.
func (m *Manager) Tools(ctx context.Context) ([]mcptypes.Tool, error) {
	m.mu.RLock()
	ids := append([]string(nil), m.started...)
	m.mu.RUnlock()

	return m.aggregator.GetToolsForServers(ctx, ids)
}

// Execute implements model.ToolExecutor over the MCP servers.
func (m *Manager) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	result, err := m.aggregator.ExecuteTool(ctx, name, args)
	if err != nil {
		return nil, err
	}
	return ResultText(result)
}

// RegisterTools adds every MCP tool to registry. Names already present in
// the registry are skipped. It returns how many tools were added.
func (m *Manager) RegisterTools(ctx context.Context, registry *tools.Registry) (int, error) {
	mcpTools, err := m.Tools(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list MCP tools: %w", err)
	}

	added := 0
	for _, tool := range mcpTools {
		name := tool.Name
		err := registry.Register(tools.Tool{
			Definition: ToolDescriptorFromMCP(tool),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return m.Execute(ctx, name, args)
			},
		})
		if err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[MCP] Skipping tool '%s': %v", name, err)
			}
			continue
		}
		added++
	}
	return added, nil
}

// FailedServers returns a copy of the start failures keyed by server id.
func (m *Manager) FailedServers() map[string]error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	failures := make(map[string]error, len(m.failed))
	for k, v := range m.failed {
		failures[k] = v
	}
	return failures
}

func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.started = nil
	m.mu.Unlock()
	return m.processManager.Shutdown(ctx)
}
