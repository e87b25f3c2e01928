package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/obj"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/system"
	"golang.org/x/image/font/basicfont"
)

type Game struct {
	frames int

	input   *obj.Input
	world   *system.World
	factory *system.Factory
	watcher *prefabs.Watcher

	paused   bool
	over     bool
	quit     bool
	pauseUI  *ebitenui.UI
	overUI   *ebitenui.UI
	textFace ebtext.Face
}

func NewGame(world *system.World, factory *system.Factory) *Game {
	g := &Game{
		input:    obj.NewInput(),
		world:    world,
		factory:  factory,
		textFace: ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.pauseUI = NewPauseUI(g)
	g.overUI = NewGameOverUI(g)
	world.Subscribe(func(evt component.CombatEvent) {
		if evt.Type == component.EventDeath {
			g.over = true
		}
	})
	return g
}

// Watch reloads the current level whenever files under dirs change.
func (g *Game) Watch(dirs ...string) error {
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}

	g.pollWatcher()
	g.input.Update()

	if g.over {
		g.overUI.Update()
		return nil
	}
	if g.input.PausePressed {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if g.input.DebugPressed {
		g.world.ToggleDebug()
	}
	if g.input.NextPressed && g.world.Debug() {
		g.world.NextLevel()
	}
	if g.input.AttackPressed {
		g.world.RequestAttack()
	}
	if g.input.MoveX != 0 || g.input.MoveY != 0 {
		g.world.RequestMove(g.input.MoveX, g.input.MoveY)
	}

	g.world.Update()
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("watch: %v", err)
	default:
	}
	changed := g.watcher.Drain()
	if len(changed) == 0 {
		return
	}
	log.Printf("watch: %d file(s) changed, reloading %s", len(changed), g.world.LevelName())
	g.factory.Reset()
	if g.world.Reload() {
		g.over = false
	}
}

// restart reloads the current level after a game over.
func (g *Game) restart() {
	if g.world.Reload() {
		g.over = false
		g.paused = false
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	g.world.Draw(screen)

	if g.world.Debug() {
		g.drawDebugText(screen)
	}
	switch {
	case g.over:
		g.overUI.Draw(screen)
	case g.paused:
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawDebugText(screen *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.1f\nLevel: %s", ebiten.ActualFPS(), g.world.LevelName())
	if p := g.world.Player(); p != nil {
		msg += fmt.Sprintf("\nTile: %d,%d\nState: %s\nHealth: %d/%d",
			common.TileOf(p.X), common.TileOf(p.Y), p.State(), p.Health().Current, p.Health().Max)
	}

	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(4, 36)
	op.LineSpacing = 12
	op.ColorScale.ScaleWithColor(color.White)
	ebtext.Draw(screen, msg, g.textFace, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
