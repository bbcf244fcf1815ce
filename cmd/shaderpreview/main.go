package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/portal/assets"
	"github.com/milk9111/portal/ecs/component"
	"github.com/milk9111/portal/portal"
	"github.com/milk9111/portal/prefabs"
)

const (
	screenWidth  = 800
	screenHeight = 600
	quadSize     = 400
)

// Game ping-pongs one portal quad between open and closed and recompiles
// the shader whenever the file on disk changes.
type Game struct {
	path    string
	shader  *ebiten.Shader
	mat     *component.Material
	ctrl    *portal.Controller
	watcher *prefabs.Watcher
	hold    float64
	idle    float64
	frames  int
	lastErr error
}

func NewGame(path string, duration, hold float64) (*Game, error) {
	sh, err := assets.LoadShaderFile(path)
	if err != nil {
		return nil, err
	}

	mat := component.NewMaterial(sh, map[string]float32{
		portal.UniformCircleClip:  1,
		portal.UniformCircleWidth: 0.5,
		portal.UniformFeather:     0.1,
	})
	mat.Uniforms["Size"] = []float32{quadSize, quadSize}
	mat.Uniforms["Tint"] = []float32{0.58, 0.44, 0.86, 1}

	cfg := portal.DefaultConfig()
	cfg.Duration = duration
	cfg.TickPeriod = 1 / float64(ebiten.TPS())
	ctrl, err := portal.NewController([]portal.Material{mat}, cfg)
	if err != nil {
		return nil, err
	}

	w, err := prefabs.NewFilteredWatcher(prefabs.IsShaderFile, filepath.Dir(path))
	if err != nil {
		log.Printf("shader watch disabled: %v", err)
	}

	return &Game{path: path, shader: sh, mat: mat, ctrl: ctrl, watcher: w, hold: hold}, nil
}

func (g *Game) Update() error {
	for _, name := range g.watcher.Drain() {
		if filepath.Base(name) != filepath.Base(g.path) {
			continue
		}
		sh, err := assets.LoadShaderFile(g.path)
		g.lastErr = err
		if err != nil {
			log.Printf("shader compile error: %v", err)
			continue
		}
		g.shader = sh
		g.mat.Shader = sh
		log.Printf("shader reloaded: %s", g.path)
	}

	dt := 1 / float64(ebiten.TPS())
	g.ctrl.Tick(dt)
	if !g.ctrl.IsTransitioning() {
		g.idle += dt
		if g.idle >= g.hold {
			g.idle = 0
			g.ctrl.Toggle()
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.frames++
	op := &ebiten.DrawRectShaderOptions{
		Uniforms: g.mat.DrawUniforms(map[string]any{"Time": float32(g.frames) / 60}),
	}
	op.GeoM.Translate((screenWidth-quadSize)/2, (screenHeight-quadSize)/2)
	screen.DrawRectShader(quadSize, quadSize, g.shader, op)

	msg := fmt.Sprintf("%s  %s %.0f%%", g.ctrl.State(), g.ctrl.Direction(), 100*g.ctrl.Progress())
	if g.lastErr != nil {
		msg += "\ncompile error, showing last good shader"
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	path := flag.String("shader", "assets/shaders/portal.kage", "Kage source to preview")
	duration := flag.Float64("duration", 1, "transition duration in seconds")
	hold := flag.Float64("hold", 0.5, "seconds to rest between transitions")
	flag.Parse()

	game, err := NewGame(*path, *duration, *hold)
	if err != nil {
		log.Fatal(err)
	}
	if game.watcher != nil {
		defer game.watcher.Close()
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Portal Shader Preview")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
