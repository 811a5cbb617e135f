package canvas

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

var (
	// ErrUnknownPlugin is returned by PluginRegistry.Create for ids that were
	// never registered.
	ErrUnknownPlugin = errors.New("unknown plugin")

	// ErrEngineRequired is returned when a plugin is activated before it was
	// initialized with an engine.
	ErrEngineRequired = errors.New("plugin has no engine")
)

// Plugin is a feature layered on top of the engine. Plugins observe the
// engine through its accessors and event bus; the engine knows nothing about
// them.
type Plugin interface {
	ID() string
	Name() string
	Version() string

	Initialize(e *Engine) error
	Activate() error
	Deactivate() error
	Dispose() error

	Enabled() bool
	Activated() bool
}

// PluginHooks are optional callbacks run by BasePlugin at each lifecycle
// step. A nil hook is skipped.
type PluginHooks struct {
	OnInitialize func(e *Engine) error
	OnActivate   func() error
	OnDeactivate func() error
	OnDispose    func() error
}

// BasePlugin implements the Plugin lifecycle. Embed it and supply hooks for
// plugin-specific work.
type BasePlugin struct {
	id      string
	name    string
	version string
	hooks   PluginHooks

	engine    *Engine
	enabled   bool
	activated bool
}

// NewBasePlugin returns a BasePlugin with the given identity and hooks.
func NewBasePlugin(id, name, version string, hooks PluginHooks) BasePlugin {
	return BasePlugin{id: id, name: name, version: version, hooks: hooks}
}

func (p *BasePlugin) ID() string      { return p.id }
func (p *BasePlugin) Name() string    { return p.name }
func (p *BasePlugin) Version() string { return p.version }

// Engine returns the engine the plugin was initialized with, or nil.
func (p *BasePlugin) Engine() *Engine { return p.engine }

// Enabled reports whether the plugin is enabled.
func (p *BasePlugin) Enabled() bool { return p.enabled }

// Activated reports whether the plugin is active.
func (p *BasePlugin) Activated() bool { return p.activated }

// SetHooks replaces the lifecycle hooks. Embedding types call this from
// their constructor once the receiver exists.
func (p *BasePlugin) SetHooks(h PluginHooks) { p.hooks = h }

// Initialize binds the plugin to e.
func (p *BasePlugin) Initialize(e *Engine) error {
	p.engine = e
	if p.hooks.OnInitialize != nil {
		if err := p.hooks.OnInitialize(e); err != nil {
			return fmt.Errorf("plugin %s: initialize: %w", p.id, err)
		}
	}
	return nil
}

// Activate enables the plugin and emits plugin:activated. Activating an
// already active plugin does nothing. If the hook fails the plugin stays
// inactive.
func (p *BasePlugin) Activate() error {
	if p.activated {
		return nil
	}
	if p.engine == nil {
		return fmt.Errorf("plugin %s: activate: %w", p.id, ErrEngineRequired)
	}
	p.enabled = true
	p.activated = true
	if p.hooks.OnActivate != nil {
		if err := p.hooks.OnActivate(); err != nil {
			p.enabled = false
			p.activated = false
			return fmt.Errorf("plugin %s: activate: %w", p.id, err)
		}
	}
	p.engine.EventBus().Emit(EventPluginActivated, PluginStatus{PluginID: p.id})
	return nil
}

// Deactivate disables the plugin and emits plugin:deactivated. Deactivating
// an inactive plugin does nothing.
func (p *BasePlugin) Deactivate() error {
	if !p.activated {
		return nil
	}
	p.enabled = false
	p.activated = false
	var err error
	if p.hooks.OnDeactivate != nil {
		if herr := p.hooks.OnDeactivate(); herr != nil {
			err = fmt.Errorf("plugin %s: deactivate: %w", p.id, herr)
		}
	}
	if p.engine != nil {
		p.engine.EventBus().Emit(EventPluginDeactivated, PluginStatus{PluginID: p.id})
	}
	return err
}

// Dispose deactivates the plugin, runs the dispose hook and drops the
// engine reference.
func (p *BasePlugin) Dispose() error {
	errs := []error{p.Deactivate()}
	if p.hooks.OnDispose != nil {
		if err := p.hooks.OnDispose(); err != nil {
			errs = append(errs, fmt.Errorf("plugin %s: dispose: %w", p.id, err))
		}
	}
	p.engine = nil
	return errors.Join(errs...)
}

// PluginFactory builds a fresh plugin instance.
type PluginFactory func() Plugin

// PluginRegistry maps plugin ids to factories. Each host owns its own
// registry.
type PluginRegistry struct {
	factories map[string]PluginFactory
	logger    *slog.Logger
}

// NewPluginRegistry creates an empty registry. A nil logger uses
// slog.Default.
func NewPluginRegistry(logger *slog.Logger) *PluginRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &PluginRegistry{
		factories: make(map[string]PluginFactory),
		logger:    logger.With("component", "plugins"),
	}
}

// Register adds or replaces the factory for id.
func (r *PluginRegistry) Register(id string, f PluginFactory) {
	r.factories[id] = f
}

// Has reports whether id is registered.
func (r *PluginRegistry) Has(id string) bool {
	_, ok := r.factories[id]
	return ok
}

// IDs returns the registered ids in sorted order.
func (r *PluginRegistry) IDs() []string {
	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Create builds a new instance of plugin id.
func (r *PluginRegistry) Create(id string) (Plugin, error) {
	f, ok := r.factories[id]
	if !ok {
		r.logger.Warn("no plugin registered", "plugin", id)
		return nil, fmt.Errorf("create plugin %q: %w", id, ErrUnknownPlugin)
	}
	return f(), nil
}
