package mcp

import (
	"context"
	"fmt"
	"sync"

	"coursebot/config"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// ToolAggregator merges the tools of several servers into one flat set.
// Tools keep their own names; when two servers list the same name the
// earlier server wins.
type ToolAggregator struct {
	processManager *ProcessManager

	mu     sync.RWMutex
	owners map[string]string // tool name -> server id
}

func NewToolAggregator(pm *ProcessManager) *ToolAggregator {
	return &ToolAggregator{
		processManager: pm,
		owners:         make(map[string]string),
	}
}

// GetToolsForServers lists the tools of the given servers in order and
// records which server owns each name.
func (ta *ToolAggregator) GetToolsForServers(ctx context.Context, serverIDs []string) ([]mcptypes.Tool, error) {
	var allTools []mcptypes.Tool
	owners := make(map[string]string)

	for _, serverID := range serverIDs {
		tools, err := ta.processManager.GetTools(serverID)
		if err != nil {
			continue
		}

		for _, tool := range tools {
			if owner, taken := owners[tool.Name]; taken {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[MCP] Tool '%s' from '%s' shadowed by '%s'", tool.Name, serverID, owner)
				}
				continue
			}
			owners[tool.Name] = serverID
			allTools = append(allTools, tool)
		}
	}

	ta.mu.Lock()
	ta.owners = owners
	ta.mu.Unlock()

	return allTools, nil
}

// ExecuteTool calls a tool on the server that owns it.
func (ta *ToolAggregator) ExecuteTool(ctx context.Context, toolName string, args map[string]any) (*mcptypes.CallToolResult, error) {
	ta.mu.RLock()
	serverID, ok := ta.owners[toolName]
	ta.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no MCP server provides tool %s", toolName)
	}

	client, err := ta.processManager.GetClient(serverID)
	if err != nil {
		return nil, err
	}

	return client.CallTool(ctx, mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	})
}
