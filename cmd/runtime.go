package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"coursebot/chat"
	"coursebot/config"
	"coursebot/mcp"
	"coursebot/model"
	"coursebot/provider"
	"coursebot/storage"
	"coursebot/tools"
)

// newProvider is swapped out in tests.
var newProvider = provider.FromConfig

// appRuntime holds everything a question needs: the provider, the history
// store and the tools offered to the model.
type appRuntime struct {
	cfg      *config.Config
	provider model.Provider
	store    *storage.HistoryStore
	registry *tools.Registry
	mcp      *mcp.Manager
	service  *chat.Service
}

func newAppRuntime(ctx context.Context, cfg *config.Config, withTools bool) (*appRuntime, error) {
	p, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewHistoryStore(cfg.DataDir())
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	rt := &appRuntime{cfg: cfg, provider: p, store: store, registry: tools.NewRegistry()}

	if withTools && p.SupportsTools() {
		if err := rt.loadTools(ctx); err != nil {
			rt.Close()
			return nil, err
		}
	}

	llm, _ := cfg.LLM()
	rt.service = chat.NewService(p, llm.Provider, store, rt.registry, cfg.MaxHistory)
	return rt, nil
}

func (rt *appRuntime) loadTools(ctx context.Context) error {
	historyTool, err := tools.SearchHistoryTool(rt.store)
	if err != nil {
		return err
	}
	if err := rt.registry.Register(historyTool); err != nil {
		return err
	}

	if len(rt.cfg.MCPServers) == 0 {
		return nil
	}

	rt.mcp = mcp.NewManager(rt.cfg.MCPServers)
	if err := rt.mcp.StartAll(ctx); err != nil {
		return err
	}

	failed := rt.mcp.FailedServers()
	ids := make([]string, 0, len(failed))
	for id := range failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(os.Stderr, "Warning: MCP server %s did not start: %v\n", id, failed[id])
	}

	if _, err := rt.mcp.RegisterTools(ctx, rt.registry); err != nil {
		return err
	}
	return nil
}

func (rt *appRuntime) Close() {
	if rt.mcp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.mcp.Shutdown(ctx); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] Shutdown: %v", err)
		}
	}
	if err := rt.store.Close(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Storage] Close: %v", err)
	}
}
