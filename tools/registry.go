package tools

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jonwraymond/toolfoundation/model"
)

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
}

// ServerInfo describes this MCP server for the initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry is the tool catalog and dispatcher behind the MCP surface.
// Tools keep their registration order in listings.
type Registry struct {
	mu       sync.RWMutex
	config   Config
	logger   *zap.Logger
	order    []string
	tools    map[string]model.Tool
	handlers map[string]ToolHandler
}

// New creates a new Registry with the given config.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		config:   cfg,
		logger:   logger,
		tools:    make(map[string]model.Tool),
		handlers: make(map[string]ToolHandler),
	}
}

// RegisterLocal registers a tool with a local execution handler.
func (r *Registry) RegisterLocal(tool model.Tool, handler ToolHandler) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, tool.Name)
	}
	r.tools[tool.Name] = tool
	r.handlers[tool.Name] = handler
	r.order = append(r.order, tool.Name)
	return nil
}

// RegisterLocalFunc is a convenience for inline tool definition.
func (r *Registry) RegisterLocalFunc(
	name, description string,
	inputSchema map[string]any,
	handler ToolHandler,
	opts ...LocalToolOption,
) error {
	cfg := applyLocalToolOptions(opts)
	tool := buildLocalTool(name, description, inputSchema, cfg)
	return r.RegisterLocal(tool, handler)
}

// ListAll returns all registered tools in registration order.
func (r *Registry) ListAll() []model.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]model.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// GetTool returns a tool by name.
func (r *Registry) GetTool(name string) (model.Tool, error) {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return model.Tool{}, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// Execute runs a tool by name with the given arguments.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	handler, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}

	r.logger.Debug("tool call", zap.String("tool", name))
	result, err := handler(ctx, args)
	if err != nil {
		r.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
		return nil, err
	}
	return result, nil
}
