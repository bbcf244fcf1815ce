package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/portal/assets"
	"github.com/milk9111/portal/common"
	"github.com/milk9111/portal/ecs"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/ecs/entity"
	"github.com/milk9111/portal/ecs/system"
	"github.com/milk9111/portal/portal"
	"github.com/milk9111/portal/prefabs"
	"github.com/milk9111/portal/save"
	"gopkg.in/yaml.v3"
)

const saveAppName = "milk9111_portal"

type gameOptions struct {
	SpecName    string
	Debug       bool
	StartClosed bool
	Persist     bool
}

type Game struct {
	opts gameOptions
	tick float64

	world     *ecs.World
	scheduler *ecs.Scheduler
	scripts   *system.TriggerScriptSystem
	render    *system.RenderSystem
	shader    *ebiten.Shader
	store     *save.Store
	watcher   *prefabs.Watcher

	root          ecs.Entity
	reloadPending bool

	ui     *ebitenui.UI
	panel  *portalPanel
	status string
}

func NewGame(opts gameOptions) (*Game, error) {
	shader, err := assets.LoadShader(assets.PortalShaderPath)
	if err != nil {
		return nil, err
	}

	g := &Game{
		opts:   opts,
		tick:   1 / float64(ebiten.TPS()),
		world:  ecs.NewWorld(),
		shader: shader,
	}
	if opts.Persist {
		g.store = save.Open(saveAppName)
	}

	spec, err := g.loadSpec()
	if err != nil {
		return nil, err
	}
	if opts.StartClosed {
		closed := false
		spec.StartOpen = &closed
	}
	if g.store != nil {
		system.RestoreSaved(g.store, spec)
	}

	if _, err := entity.NewInput(g.world); err != nil {
		return nil, err
	}
	if g.root, err = entity.BuildPortal(g.world, spec, shader, g.tick); err != nil {
		return nil, err
	}
	if spec.Proximity.Radius > 0 {
		if _, err := entity.NewVisitor(g.world, 80, common.BaseHeight/2); err != nil {
			return nil, err
		}
	}

	g.scripts = system.NewTriggerScriptSystem()
	portals := system.NewPortalSystem(g.tick)
	portals.Debug = opts.Debug
	var persistence ecs.System
	if g.store != nil {
		persistence = system.NewPersistenceSystem(g.store)
	}
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(nil),
		system.NewVisitorSystem(g.tick, common.BaseWidth, common.BaseHeight),
		system.NewProximitySystem(),
		system.NewTriggerSystem(),
		g.scripts,
		portals,
		persistence,
	)
	g.render = system.NewRenderSystem(float64(ebiten.TPS()))

	g.watcher = startWatcher()
	g.panel = newPortalPanel(g)
	g.ui = g.panel.ui
	g.setStatus()
	return g, nil
}

func (g *Game) loadSpec() (*prefabs.PortalSpec, error) {
	return prefabs.LoadPortalSpec(g.opts.SpecName)
}

// startWatcher watches the on-disk prefab directory when there is one.
func startWatcher() *prefabs.Watcher {
	dirs := []string{}
	for _, dir := range []string{prefabs.DiskRoot, filepath.Join(prefabs.DiskRoot, "scripts")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		log.Printf("portal: hot reload disabled: %v", err)
		return nil
	}
	return w
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.pollWatcher()
	if g.reloadPending && !g.transitioning() {
		g.reloadPortal()
	}

	g.ui.Update()
	g.scheduler.Update(g.world)

	// Events are logged by the portal system in debug mode; here they only
	// refresh the status line.
	if len(g.world.Events().Drain()) > 0 || g.transitioning() {
		g.setStatus()
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	if err := g.watcher.Err(); err != nil {
		log.Printf("portal: watcher: %v", err)
	}
	for _, name := range g.watcher.Drain() {
		switch filepath.Ext(name) {
		case ".tengo":
			log.Printf("portal: reloading script %s", name)
			g.scripts.Invalidate(name)
		default:
			if filepath.Base(name) == filepath.Base(g.opts.SpecName) {
				g.reloadPending = true
			}
		}
	}
}

// reloadPortal rebuilds the portal from its prefab, keeping the current
// logical state. A broken prefab leaves the running portal untouched.
func (g *Game) reloadPortal() {
	g.reloadPending = false

	spec, err := g.loadSpec()
	if err != nil {
		log.Printf("portal: reload %s: %v", g.opts.SpecName, err)
		return
	}
	if p := g.portal(); p != nil && p.Controller != nil {
		open := p.Controller.State() == portal.Open
		spec.StartOpen = &open
	}

	root, err := entity.BuildPortal(g.world, spec, g.shader, g.tick)
	if err != nil {
		log.Printf("portal: rebuild %s: %v", g.opts.SpecName, err)
		return
	}
	entity.DestroyPortal(g.world, g.root)
	g.root = root
	log.Printf("portal: reloaded %s", g.opts.SpecName)
	g.setStatus()
}

func (g *Game) portal() *component.Portal {
	p, ok := ecs.Get(g.world, g.root, component.PortalComponent)
	if !ok {
		return nil
	}
	return p
}

func (g *Game) transitioning() bool {
	p := g.portal()
	return p != nil && p.Controller != nil && p.Controller.IsTransitioning()
}

// request queues a trigger on the portal; the portal system applies it on
// its next update.
func (g *Game) request(fn func(p *component.Portal)) {
	if p := g.portal(); p != nil {
		fn(p)
	}
}

func (g *Game) setStatus() {
	p := g.portal()
	if p == nil || p.Controller == nil {
		g.status = "no portal"
	} else {
		c := p.Controller
		g.status = fmt.Sprintf("%s: %s", p.Name, c.State())
		if c.IsTransitioning() {
			g.status = fmt.Sprintf("%s: %s %3.0f%%", p.Name, c.Direction(), 100*c.Progress())
		}
	}
	if g.panel != nil {
		g.panel.setStatus(g.status)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x10, G: 0x0c, B: 0x1c, A: 0xff})
	g.render.Draw(g.world, screen)
	g.ui.Draw(screen)

	if g.opts.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %.2f    FPS: %.2f\n%s", ebiten.ActualTPS(), ebiten.ActualFPS(), g.status))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

type uniformSnapshot struct {
	Name     string              `yaml:"name"`
	Uniforms prefabs.UniformSpec `yaml:"uniforms"`
}

// snapshotUniforms renders the parts' current uniforms in prefab YAML so a
// tuned pose can be pasted back into a spec.
func snapshotUniforms(w *ecs.World, root ecs.Entity) ([]byte, error) {
	p, ok := ecs.Get(w, root, component.PortalComponent)
	if !ok {
		return nil, fmt.Errorf("portal: entity %s is not a portal", root)
	}

	parts := make([]uniformSnapshot, 0, len(p.Parts))
	for _, id := range p.Parts {
		e := ecs.Entity(id)
		mat, ok := ecs.Get(w, e, component.MaterialComponent)
		if !ok {
			continue
		}
		snap := uniformSnapshot{}
		if part, ok := ecs.Get(w, e, component.PortalPartComponent); ok {
			snap.Name = part.Name
		}
		snap.Uniforms.CircleClip, _ = mat.Float(portal.UniformCircleClip)
		snap.Uniforms.CircleWidth, _ = mat.Float(portal.UniformCircleWidth)
		snap.Uniforms.Feather, _ = mat.Float(portal.UniformFeather)
		parts = append(parts, snap)
	}
	return yaml.Marshal(map[string]any{"parts": parts})
}
