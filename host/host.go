package host

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/infinispace/canvas"
	"github.com/infinispace/canvas/config"
)

// keyPanStep is how far the arrow keys pan per tick, in screen pixels.
const keyPanStep = 8

var translucentBlack = color.RGBA{A: 128}

// ErrNoSnapshotPath is returned by Save and Load actions when the host was
// built without WithSnapshotPath.
var ErrNoSnapshotPath = errors.New("no snapshot path configured")

// Action is a user command bound to the toolbar and keyboard.
type Action int

const (
	ActionZoomIn Action = iota
	ActionZoomOut
	ActionReset
	ActionFit
	ActionSave
	ActionLoad
	ActionPickNode
)

func (a Action) String() string {
	switch a {
	case ActionZoomIn:
		return "zoom-in"
	case ActionZoomOut:
		return "zoom-out"
	case ActionReset:
		return "reset"
	case ActionFit:
		return "fit"
	case ActionSave:
		return "save"
	case ActionLoad:
		return "load"
	case ActionPickNode:
		return "pick-node"
	default:
		return "unknown"
	}
}

// Option configures a Host.
type Option func(*Host)

// WithLogger sets the logger for the host and its engine.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClock sets the time source for animation frames and timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Host) {
		if now != nil {
			h.now = now
		}
	}
}

// WithNodes seeds the canvas.
func WithNodes(nodes []canvas.CanvasNode) Option {
	return func(h *Host) { h.nodes = nodes }
}

// WithSnapshotPath sets the file used by the save and load actions.
func WithSnapshotPath(path string) Option {
	return func(h *Host) { h.snapshotPath = path }
}

// WithScript drives the host from a test script instead of the mouse. When
// the script finishes, each export is written to exportDir as <label>.json
// (skipped when exportDir is empty) and Update returns ebiten.Termination.
func WithScript(r *canvas.TestRunner, exportDir string) Option {
	return func(h *Host) {
		h.runner = r
		h.exportDir = exportDir
	}
}

// WithPlugin registers an extra layer factory. The layer runs when the
// config enables id.
func WithPlugin(id string, f canvas.PluginFactory) Option {
	return func(h *Host) { h.extra = append(h.extra, pluginFactory{id, f}) }
}

type pluginFactory struct {
	id string
	f  canvas.PluginFactory
}

// Host runs an engine inside an ebiten game loop. It implements ebiten.Game.
// All engine access happens on the ebiten update/draw goroutine; config
// reloads from other goroutines go through Reload.
type Host struct {
	cfg    *config.Config
	theme  Theme
	logger *slog.Logger
	now    func() time.Time

	engine    *canvas.Engine
	input     *canvas.Interaction
	scheduler *canvas.ManualScheduler
	registry  *canvas.PluginRegistry
	layers    []Layer
	extra     []pluginFactory
	nodes     []canvas.CanvasNode

	snapshotPath string
	runner       *canvas.TestRunner
	exportDir    string

	pointerDown bool
	captured    PointerLayer

	reloads chan *config.Config
}

// New builds a host for cfg. cfg must be valid; see config.Config.Validate.
func New(cfg *config.Config, opts ...Option) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new host: %w", err)
	}
	h := &Host{
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
		scheduler: canvas.NewManualScheduler(),
		reloads:   make(chan *config.Config, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.theme, _ = NewTheme(cfg.Theme)

	engineOpts := append(cfg.EngineOptions(),
		canvas.WithLogger(h.logger),
		canvas.WithClock(h.now),
		canvas.WithScheduler(h.scheduler),
		canvas.WithNodes(h.nodes),
	)
	h.engine = canvas.NewEngine(cfg.InitialViewport(), cfg.Constraints(), engineOpts...)
	h.input = canvas.NewInteraction(h.engine)
	h.registry = NewRegistry(h.logger, func(a Action) { _ = h.Do(a) })
	h.logger = h.logger.With("component", "host")

	for _, p := range h.extra {
		h.registry.Register(p.id, p.f)
	}
	h.syncLayers()
	return h, nil
}

// Engine returns the hosted engine.
func (h *Host) Engine() *canvas.Engine { return h.engine }

// Interaction returns the input controller.
func (h *Host) Interaction() *canvas.Interaction { return h.input }

// Config returns the config currently applied.
func (h *Host) Config() *config.Config { return h.cfg }

// Layers returns the active layers in draw order.
func (h *Host) Layers() []Layer { return slices.Clone(h.layers) }

// Registry returns the plugin registry.
func (h *Host) Registry() *canvas.PluginRegistry { return h.registry }

// --- ebiten.Game ---

// Update applies pending config reloads, feeds one frame of input into the
// engine and advances animations.
func (h *Host) Update() error {
	h.drainReloads()

	switch {
	case h.runner != nil:
		h.runner.Step(h.input)
		h.input.Step()
		if h.runner.Done() {
			return h.finishScript()
		}
	case h.input.Pending() > 0:
		h.input.Step()
	default:
		h.pollPointer()
		h.pollKeys()
	}

	h.scheduler.Advance(h.now())
	return nil
}

// Draw clears to the theme background and draws active layers in priority
// order.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(h.theme.Background)
	h.drawLayers(screen)
}

func (h *Host) drawLayers(screen *ebiten.Image) {
	for _, l := range h.layers {
		if l.Activated() {
			h.drawLayer(l, screen)
		}
	}
}

// drawLayer draws l. A layer that panics is logged and deactivated; the
// remaining layers still draw.
func (h *Host) drawLayer(l Layer, screen *ebiten.Image) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		h.logger.Error("layer draw panicked", "plugin", l.ID(), "panic", r)
		if h.captured == l {
			h.captured = nil
		}
		if err := l.Deactivate(); err != nil {
			h.logger.Warn("plugin deactivate failed", "plugin", l.ID(), "err", err)
		}
	}()
	l.Draw(screen)
}

// Layout tracks the window size so screen-centred operations use it.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.engine.SetScreenSize(canvas.Size{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	return outsideWidth, outsideHeight
}

// --- Input ---

func (h *Host) pointerLayerAt(p canvas.Position) PointerLayer {
	for _, l := range slices.Backward(h.layers) {
		pl, ok := l.(PointerLayer)
		if ok && pl.Activated() && pl.HitTest(p) {
			return pl
		}
	}
	return nil
}

func (h *Host) pollPointer() {
	s := readPointer()
	switch {
	case s.down && !h.pointerDown:
		h.pointerDown = true
		h.captured = h.pointerLayerAt(s.pos)
		if h.captured != nil {
			h.captured.PointerDown(s.pos)
		} else {
			h.input.PointerDown(s.pos, s.button)
		}
	case s.down:
		if h.captured != nil {
			h.captured.PointerMove(s.pos)
		} else {
			h.input.PointerMove(s.pos)
		}
	case h.pointerDown:
		h.pointerDown = false
		if h.captured != nil {
			h.captured.PointerUp(s.pos)
			h.captured = nil
		} else {
			h.input.PointerUp(s.pos)
		}
	}

	if d := wheelDelta(); d != 0 && h.pointerLayerAt(s.pos) == nil {
		h.input.Wheel(d, s.pos)
	}
}

func (h *Host) pollKeys() {
	if ctrlPressed() {
		switch {
		case shiftPressed() && isKeyJustPressed(ebiten.KeyN):
			_ = h.Do(ActionPickNode)
		case isKeyJustPressed(ebiten.KeyS):
			_ = h.Do(ActionSave)
		case isKeyJustPressed(ebiten.KeyO):
			_ = h.Do(ActionLoad)
		}
		return
	}

	switch {
	case anyJustPressed(ebiten.KeyEqual, ebiten.KeyNumpadAdd):
		_ = h.Do(ActionZoomIn)
	case anyJustPressed(ebiten.KeyMinus, ebiten.KeyNumpadSubtract):
		_ = h.Do(ActionZoomOut)
	case anyJustPressed(ebiten.KeyDigit0, ebiten.KeyNumpad0):
		_ = h.Do(ActionReset)
	case isKeyJustPressed(ebiten.KeyF):
		_ = h.Do(ActionFit)
	case isKeyJustPressed(ebiten.KeyEscape):
		if !h.dismiss() {
			h.input.Cancel()
		}
	}

	var dx, dy float64
	if isKeyPressed(ebiten.KeyArrowLeft) {
		dx += keyPanStep
	}
	if isKeyPressed(ebiten.KeyArrowRight) {
		dx -= keyPanStep
	}
	if isKeyPressed(ebiten.KeyArrowUp) {
		dy += keyPanStep
	}
	if isKeyPressed(ebiten.KeyArrowDown) {
		dy -= keyPanStep
	}
	if dx != 0 || dy != 0 {
		h.engine.Pan(dx, dy)
	}
}

// dismiss closes the topmost open transient layer.
func (h *Host) dismiss() bool {
	for _, l := range slices.Backward(h.layers) {
		if d, ok := l.(Dismisser); ok && l.Activated() && d.Dismiss() {
			return true
		}
	}
	return false
}

// --- Actions ---

func (h *Host) animationDuration() time.Duration {
	return time.Duration(h.cfg.Viewport.Behaviors.AnimationMS) * time.Millisecond
}

// Do runs a. Failures are logged and returned.
func (h *Host) Do(a Action) error {
	var err error
	switch a {
	case ActionZoomIn:
		h.engine.Zoom(-1, h.engine.Center())
	case ActionZoomOut:
		h.engine.Zoom(1, h.engine.Center())
	case ActionReset:
		h.engine.ResetViewport(nil)
	case ActionFit:
		if !h.engine.ZoomToFit(h.cfg.Viewport.Behaviors.FitPadding, h.animationDuration()) {
			h.logger.Debug("nothing to fit")
		}
	case ActionSave:
		err = h.save()
	case ActionLoad:
		err = h.load()
	case ActionPickNode:
		h.engine.RequestContextMenu(h.engine.Center())
	default:
		err = fmt.Errorf("unknown action %d", int(a))
	}
	if err != nil {
		h.logger.Error("action failed", "action", a.String(), "err", err)
	}
	return err
}

func (h *Host) save() error {
	if h.snapshotPath == "" {
		return fmt.Errorf("save: %w", ErrNoSnapshotPath)
	}
	if err := canvas.SaveSnapshotFile(h.snapshotPath, h.engine.ExportState()); err != nil {
		return err
	}
	h.logger.Info("canvas saved", "path", h.snapshotPath, "nodes", h.engine.NodeCount())
	return nil
}

func (h *Host) load() error {
	if h.snapshotPath == "" {
		return fmt.Errorf("load: %w", ErrNoSnapshotPath)
	}
	s, err := canvas.LoadSnapshotFile(h.snapshotPath)
	if err != nil {
		return err
	}
	h.input.Cancel()
	h.engine.LoadState(s)
	h.logger.Info("canvas loaded", "path", h.snapshotPath, "nodes", h.engine.NodeCount())
	return nil
}

func (h *Host) finishScript() error {
	if h.exportDir != "" {
		if err := os.MkdirAll(h.exportDir, 0o755); err != nil {
			return fmt.Errorf("write script exports: %w", err)
		}
		var errs []error
		for _, label := range h.runner.ExportLabels() {
			s, _ := h.runner.Export(label)
			path := filepath.Join(h.exportDir, label+".json")
			if err := canvas.SaveSnapshotFile(path, s); err != nil {
				errs = append(errs, err)
				continue
			}
			h.logger.Info("export written", "label", label, "path", path)
		}
		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("write script exports: %w", err)
		}
	}
	return ebiten.Termination
}

// --- Config ---

// Reload queues cfg to be applied on the next Update. It is safe to call
// from any goroutine and has the config.WatchFunc signature, so it can be
// passed straight to config.Watch. Only the newest queued config is kept.
func (h *Host) Reload(cfg *config.Config, err error) {
	if err != nil {
		h.logger.Warn("config reload skipped", "err", err)
		return
	}
	for {
		select {
		case h.reloads <- cfg:
			return
		default:
		}
		select {
		case <-h.reloads:
		default:
		}
	}
}

func (h *Host) drainReloads() {
	select {
	case cfg := <-h.reloads:
		h.applyConfig(cfg)
	default:
	}
}

func (h *Host) applyConfig(cfg *config.Config) {
	theme, err := NewTheme(cfg.Theme)
	if err != nil {
		h.logger.Warn("theme has invalid colors", "err", err)
	}
	h.cfg = cfg
	h.theme = theme

	snap := 0.0
	if cfg.Viewport.Behaviors.SnapToGrid {
		snap = cfg.Viewport.Behaviors.GridSize
	}
	h.engine.SetSnapToGrid(snap)
	h.syncLayers()

	h.engine.ApplyConfig(config.SectionViewport, cfg.Viewport)
	h.engine.ApplyConfig(config.SectionUI, cfg.UI)
	h.engine.ApplyConfig(config.SectionTheme, cfg.Theme)
	h.engine.ApplyConfig(config.SectionPlugins, cfg.Plugins)
	h.logger.Info("config applied", "layers", len(h.layers))
}

// syncLayers makes the active layers match the enabled plugin entries.
// Surviving layers keep their state; removed ones are disposed.
func (h *Host) syncLayers() {
	current := make(map[string]Layer, len(h.layers))
	for _, l := range h.layers {
		current[l.ID()] = l
	}

	var next []Layer
	for _, entry := range h.cfg.EnabledPlugins() {
		l, ok := current[entry.ID]
		if ok {
			delete(current, entry.ID)
		} else if l, ok = h.startLayer(entry.ID); !ok {
			continue
		}
		l.Configure(h.cfg, h.theme)
		next = append(next, l)
	}

	for _, l := range h.layers {
		if _, stale := current[l.ID()]; !stale {
			continue
		}
		if h.captured == l {
			h.captured = nil
		}
		if err := l.Dispose(); err != nil {
			h.logger.Warn("plugin dispose failed", "plugin", l.ID(), "err", err)
		}
	}
	h.layers = next
}

func (h *Host) startLayer(id string) (Layer, bool) {
	p, err := h.registry.Create(id)
	if err != nil {
		return nil, false
	}
	l, ok := p.(Layer)
	if !ok {
		h.logger.Warn("plugin cannot be drawn", "plugin", id)
		return nil, false
	}
	if err := l.Initialize(h.engine); err != nil {
		h.logger.Warn("plugin initialize failed", "plugin", id, "err", err)
		return nil, false
	}
	if err := l.Activate(); err != nil {
		h.logger.Warn("plugin activate failed", "plugin", id, "err", err)
		return nil, false
	}
	return l, true
}

// Dispose tears down every layer and the engine.
func (h *Host) Dispose() {
	for _, l := range h.layers {
		if err := l.Dispose(); err != nil {
			h.logger.Warn("plugin dispose failed", "plugin", l.ID(), "err", err)
		}
	}
	h.layers = nil
	h.engine.Dispose()
}

// Run opens a window sized from the host's config and runs the game loop
// until the window closes or a script finishes.
func Run(h *Host) error {
	w := h.cfg.Window
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width, w.Height)
	if w.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	defer h.Dispose()
	return ebiten.RunGame(h)
}
