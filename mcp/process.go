package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"coursebot/config"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

const protocolVersion = "2025-06-18"

// connectFunc opens a client for a server. The returned command is nil when
// no local process backs the client.
type connectFunc func(ctx context.Context, server config.MCPServerConfig) (toolClient, *exec.Cmd, error)

type ProcessManager struct {
	processes map[string]*ServerProcess
	connect   connectFunc
	mu        sync.RWMutex
}

func NewProcessManager() *ProcessManager {
	return &ProcessManager{
		processes: make(map[string]*ServerProcess),
		connect:   createLocalClient,
	}
}

// StartServer launches a server, performs the MCP handshake and caches its
// tool list.
func (pm *ProcessManager) StartServer(ctx context.Context, server config.MCPServerConfig) error {
	if _, err := pm.GetClient(server.ID); err == nil {
		return fmt.Errorf("server %s already running", server.ID)
	}

	c, cmd, err := pm.connect(ctx, server)
	if err != nil {
		return fmt.Errorf("failed to start server %s: %w", server.ID, err)
	}

	tools, err := handshake(ctx, c)
	if err != nil {
		c.Close()
		return fmt.Errorf("server %s: %w", server.ID, err)
	}

	pm.mu.Lock()
	pm.processes[server.ID] = &ServerProcess{
		ID:      server.ID,
		Command: server.Command,
		Args:    server.Args,
		Process: cmd,
		Client:  c,
		Tools:   tools,
		Running: true,
	}
	pm.mu.Unlock()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Server %s ready, %d tools", server.ID, len(tools))
	}
	return nil
}

// handshake initializes the session and fetches the server's tools.
func handshake(ctx context.Context, c toolClient) ([]mcptypes.Tool, error) {
	var init mcptypes.InitializeRequest
	init.Params.ProtocolVersion = protocolVersion
	init.Params.ClientInfo = mcptypes.Implementation{Name: "coursebot", Version: "1.0.0"}

	if _, err := c.Initialize(ctx, init); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	listed, err := c.ListTools(ctx, mcptypes.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return listed.Tools, nil
}

// StopServer closes the client, killing the process when the client does
// not close cleanly within a second.
func (pm *ProcessManager) StopServer(ctx context.Context, serverID string) error {
	pm.mu.Lock()
	proc, ok := pm.processes[serverID]
	if ok {
		proc.Running = false
		delete(pm.processes, serverID)
	}
	pm.mu.Unlock()
	if !ok {
		return fmt.Errorf("server %s not found", serverID)
	}

	if proc.Client != nil {
		err := closeWithTimeout(ctx, proc.Client, time.Second)
		if err == nil {
			return nil
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[MCP] Closing %s: %v", serverID, err)
		}
	}

	if proc.Process == nil || proc.Process.Process == nil {
		return nil
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Killing %s (pid %d)", serverID, proc.Process.Process.Pid)
	}
	if err := proc.Process.Process.Kill(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Kill %s: %v", serverID, err)
	}
	return nil
}

func closeWithTimeout(ctx context.Context, c toolClient, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.Close() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("close timed out: %w", ctx.Err())
	}
}

func (pm *ProcessManager) GetClient(serverID string) (toolClient, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	proc, exists := pm.processes[serverID]
	if !exists || !proc.Running {
		return nil, fmt.Errorf("server %s not running", serverID)
	}
	return proc.Client, nil
}

func (pm *ProcessManager) GetTools(serverID string) ([]mcptypes.Tool, error) {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	proc, exists := pm.processes[serverID]
	if !exists || !proc.Running {
		return nil, fmt.Errorf("server %s not running", serverID)
	}
	return proc.Tools, nil
}

// Running returns the ids of running servers, sorted.
func (pm *ProcessManager) Running() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	ids := make([]string, 0, len(pm.processes))
	for id, proc := range pm.processes {
		if proc.Running {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Shutdown stops every server in parallel.
func (pm *ProcessManager) Shutdown(ctx context.Context) error {
	ids := pm.Running()
	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Stopping %d servers", len(ids))
	}

	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = pm.StopServer(ctx, id)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// createLocalClient starts a stdio server. The command is captured so the
// process can be killed if the client hangs on close.
func createLocalClient(ctx context.Context, server config.MCPServerConfig) (toolClient, *exec.Cmd, error) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[MCP] Launching %s: %s %v", server.ID, server.Command, server.Args)
	}

	var launched *exec.Cmd
	c, err := client.NewStdioMCPClientWithOptions(
		server.Command,
		serverEnv(server.Env),
		server.Args,
		transport.WithCommandFunc(func(ctx context.Context, command string, env []string, args []string) (*exec.Cmd, error) {
			launched = exec.CommandContext(ctx, command, args...)
			launched.Env = env
			return launched, nil
		}),
	)
	if err != nil {
		return nil, nil, err
	}
	return c, launched, nil
}

// serverEnv appends the configured variables, in key order, to the current
// environment so PATH and friends stay visible to the server.
func serverEnv(extra map[string]string) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}
