package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/sound"
	"github.com/milk9111/dungeon/system"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	levelName := flag.String("level", "", "start level name in levels/ (.tmj optional)")
	watch := flag.Bool("watch", false, "reload the current level when levels/ or prefabs/ change on disk")
	scale := flag.Float64("scale", 0, "window scale (defaults to game.yaml)")
	flag.Parse()

	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Fatal(err)
	}
	if *scale <= 0 {
		*scale = spec.Scale
	}

	mixer := sound.NewMixer()
	factory := system.NewFactory(mixer)
	loader := system.NewLoader(levels.Source("levels"), factory)

	cfg := system.WorldConfigFromSpec(spec)
	cfg.Debug = *debug
	world := system.NewWorld(cfg, loader, mixer, nil)

	ok := false
	if *levelName != "" {
		ok = world.LoadNamed(*levelName)
	} else {
		ok = world.LoadCurrent()
	}
	if !ok {
		log.Fatalf("main: no level could be loaded")
	}

	game := NewGame(world, factory)
	if *watch {
		if err := game.Watch("levels", "prefabs"); err != nil {
			log.Printf("main: watch: %v", err)
		}
	}
	defer game.Close()

	ebiten.SetWindowSize(int(common.BaseWidth**scale), int(common.BaseHeight**scale))
	ebiten.SetWindowTitle(spec.Title)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
