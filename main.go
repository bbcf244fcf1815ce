package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/portal/common"
)

func main() {
	debug := flag.Bool("debug", false, "log every portal event and show the debug overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	startClosed := flag.Bool("closed", false, "start the portal closed regardless of the prefab")
	persist := flag.Bool("persist", false, "save the portal state between runs")
	specName := flag.String("portal", "portal.yaml", "portal prefab in prefabs/")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("portal")

	game, err := NewGame(gameOptions{
		SpecName:    *specName,
		Debug:       *debug,
		StartClosed: *startClosed,
		Persist:     *persist,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
