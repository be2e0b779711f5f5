package plugin

import (
	"sort"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

// Pool is the registry of plugins available to the content renderer.
type Pool struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewPool builds a pool with the provided plugins registered.
func NewPool(plugins ...Plugin) (*Pool, error) {
	pool := &Pool{plugins: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		if err := pool.Register(p); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// Register adds a plugin. Registering the same type twice is an error.
func (p *Pool) Register(plugin Plugin) error {
	if plugin == nil {
		return eris.New("plugin is nil")
	}

	pluginType := strings.TrimSpace(plugin.Type())
	if pluginType == "" {
		return eris.New("plugin type is required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.plugins[pluginType]; exists {
		return eris.Errorf("plugin %s is already registered", pluginType)
	}

	p.plugins[pluginType] = plugin
	return nil
}

// Get returns the plugin registered for pluginType.
func (p *Pool) Get(pluginType string) (Plugin, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	plugin, ok := p.plugins[pluginType]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownPlugin, "resolving plugin %s", pluginType)
	}
	return plugin, nil
}

// Types lists the registered plugin types in alphabetical order.
func (p *Pool) Types() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	types := make([]string, 0, len(p.plugins))
	for pluginType := range p.plugins {
		types = append(types, pluginType)
	}
	sort.Strings(types)
	return types
}
