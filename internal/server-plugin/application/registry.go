package plugins

import (
	"fmt"
	"sync"

	"github.com/alex-galey/coach-mcp/internal/server-plugin/domain"
	"go.uber.org/fx"
)

// ServerPluginRegistry manages the registration of server plugins. The
// plugin set is static: everything is registered at startup and the
// registry is only read afterwards.
type ServerPluginRegistry struct {
	plugins map[string]domain.ServerPlugin
	order   []string
	mu      sync.RWMutex
}

// NewServerPluginRegistry creates a new server plugin registry
func NewServerPluginRegistry() *ServerPluginRegistry {
	return &ServerPluginRegistry{
		plugins: make(map[string]domain.ServerPlugin),
	}
}

// Register registers a server plugin
func (r *ServerPluginRegistry) Register(plugin domain.ServerPlugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[plugin.ID()]; exists {
		return fmt.Errorf("plugin %q is already registered", plugin.ID())
	}
	r.plugins[plugin.ID()] = plugin
	r.order = append(r.order, plugin.ID())
	return nil
}

// GetServerPlugins returns all registered plugins in registration order.
func (r *ServerPluginRegistry) GetServerPlugins() []domain.ServerPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ServerPlugin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}

// GetResourceProviders returns all plugins that provide resources
func (r *ServerPluginRegistry) GetResourceProviders() []domain.ResourceProvider {
	var providers []domain.ResourceProvider
	for _, plugin := range r.GetServerPlugins() {
		if provider, ok := plugin.(domain.ResourceProvider); ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

// GetToolProviders returns all plugins that provide tools
func (r *ServerPluginRegistry) GetToolProviders() []domain.ToolProvider {
	var providers []domain.ToolProvider
	for _, plugin := range r.GetServerPlugins() {
		if provider, ok := plugin.(domain.ToolProvider); ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

// GetPromptProviders returns all plugins that provide prompts
func (r *ServerPluginRegistry) GetPromptProviders() []domain.PromptProvider {
	var providers []domain.PromptProvider
	for _, plugin := range r.GetServerPlugins() {
		if provider, ok := plugin.(domain.PromptProvider); ok {
			providers = append(providers, provider)
		}
	}
	return providers
}

// ServerPluginProvider interface that matches what MCPAdapter expects
type ServerPluginProvider interface {
	GetResourceProviders() []domain.ResourceProvider
	GetToolProviders() []domain.ToolProvider
	GetPromptProviders() []domain.PromptProvider
}

// RegisterParams collects every plugin contributed to the fx value group.
type RegisterParams struct {
	fx.In
	ServerPlugins []domain.ServerPlugin `group:"server_plugins"`
}

// RegisterAll registers the plugins provided through the fx group.
func RegisterAll(registry *ServerPluginRegistry, params RegisterParams) error {
	for _, plugin := range params.ServerPlugins {
		if err := registry.Register(plugin); err != nil {
			return err
		}
	}
	return nil
}
