package canvas

import (
	"errors"
	"strings"
	"testing"
)

type countingPlugin struct {
	BasePlugin
	inits, activations, deactivations, disposals int
	failActivate                                 bool
}

func newCountingPlugin(id string) *countingPlugin {
	p := &countingPlugin{BasePlugin: NewBasePlugin(id, "Counting "+id, "1.0.0", PluginHooks{})}
	p.SetHooks(PluginHooks{
		OnInitialize: func(*Engine) error { p.inits++; return nil },
		OnActivate: func() error {
			if p.failActivate {
				return errors.New("no GPU")
			}
			p.activations++
			return nil
		},
		OnDeactivate: func() error { p.deactivations++; return nil },
		OnDispose:    func() error { p.disposals++; return nil },
	})
	return p
}

func TestPluginLifecycle(t *testing.T) {
	e, _, _ := newTestEngine(t)
	rec := recordEvents(e.EventBus())
	p := newCountingPlugin("grid")

	if err := p.Activate(); !errors.Is(err, ErrEngineRequired) {
		t.Errorf("Activate before Initialize: err = %v", err)
	}
	if err := p.Initialize(e); err != nil {
		t.Fatal(err)
	}
	if p.Engine() != e || p.inits != 1 {
		t.Error("Initialize should bind the engine and run the hook")
	}
	if p.Enabled() || p.Activated() {
		t.Error("new plugin should be inactive")
	}

	for i := 0; i < 2; i++ {
		if err := p.Activate(); err != nil {
			t.Fatal(err)
		}
	}
	if !p.Enabled() || !p.Activated() || p.activations != 1 {
		t.Errorf("activations = %d, enabled=%v activated=%v", p.activations, p.Enabled(), p.Activated())
	}
	env, ok := rec.last(EventPluginActivated)
	if !ok || env.Data.(PluginStatus).PluginID != "grid" {
		t.Errorf("plugin:activated = %+v", env)
	}

	p.Deactivate()
	p.Deactivate()
	if p.Activated() || p.Enabled() || p.deactivations != 1 {
		t.Errorf("deactivations = %d", p.deactivations)
	}
	if rec.count(EventPluginActivated) != 1 || rec.count(EventPluginDeactivated) != 1 {
		t.Errorf("events = %v", rec.names())
	}

	p.Activate()
	if err := p.Dispose(); err != nil {
		t.Fatal(err)
	}
	if p.Engine() != nil || p.Activated() || p.disposals != 1 || p.deactivations != 2 {
		t.Errorf("after Dispose: engine=%v activated=%v disposals=%d deactivations=%d",
			p.Engine(), p.Activated(), p.disposals, p.deactivations)
	}
}

func TestPluginActivateHookFailure(t *testing.T) {
	e, _, _ := newTestEngine(t)
	rec := recordEvents(e.EventBus())
	p := newCountingPlugin("minimap")
	p.failActivate = true
	p.Initialize(e)

	err := p.Activate()
	if err == nil || !strings.Contains(err.Error(), "no GPU") || !strings.Contains(err.Error(), "minimap") {
		t.Errorf("err = %v", err)
	}
	if p.Activated() || p.Enabled() {
		t.Error("failed activation should leave the plugin inactive")
	}
	if rec.count(EventPluginActivated) != 0 {
		t.Error("failed activation should not emit")
	}
}

func TestPluginIdentity(t *testing.T) {
	p := NewBasePlugin("debug", "Debug Plugin", "2.1.0", PluginHooks{})
	var _ Plugin = &p
	if p.ID() != "debug" || p.Name() != "Debug Plugin" || p.Version() != "2.1.0" {
		t.Errorf("identity = %s %s %s", p.ID(), p.Name(), p.Version())
	}
}

func TestPluginRegistry(t *testing.T) {
	r := NewPluginRegistry(discardLogger())
	r.Register("minimap", func() Plugin { return newCountingPlugin("minimap") })
	r.Register("grid", func() Plugin { return newCountingPlugin("grid") })

	if !r.Has("grid") || r.Has("toolbar") {
		t.Error("Has mismatch")
	}
	if got := strings.Join(r.IDs(), ","); got != "grid,minimap" {
		t.Errorf("IDs = %s", got)
	}

	a, err := r.Create("grid")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.Create("grid")
	if a == b {
		t.Error("Create should build a fresh instance each time")
	}
	if a.ID() != "grid" {
		t.Errorf("ID = %s", a.ID())
	}

	if _, err := r.Create("toolbar"); !errors.Is(err, ErrUnknownPlugin) {
		t.Errorf("err = %v, want ErrUnknownPlugin", err)
	}
}

func TestPluginRegistriesAreIndependent(t *testing.T) {
	a := NewPluginRegistry(nil)
	b := NewPluginRegistry(nil)
	a.Register("grid", func() Plugin { return newCountingPlugin("grid") })
	if b.Has("grid") {
		t.Error("registries should not share state")
	}
}
