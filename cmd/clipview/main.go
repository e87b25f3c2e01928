package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/dungeon/assets"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/prefabs"
)

const viewSize = 256

type clipGame struct {
	sprite *component.AnimatedSprite
	clips  []string
	index  int
	title  string
}

func (g *clipGame) play(reset bool) {
	if len(g.clips) == 0 {
		return
	}
	g.sprite.Play(g.clips[g.index], reset, time.Now())
}

func (g *clipGame) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.index = (g.index + 1) % max(1, len(g.clips))
		g.play(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.index = (g.index - 1 + len(g.clips)) % max(1, len(g.clips))
		g.play(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.play(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	}
	g.sprite.Update(time.Now())
	return nil
}

func (g *clipGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x20, 0x28, 0xff})
	if img := g.sprite.CurrentFrame(); img != nil {
		b := img.Bounds()
		scale := float64(viewSize/2) / float64(max(b.Dx(), b.Dy()))
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((viewSize-float64(b.Dx())*scale)/2, (viewSize-float64(b.Dy())*scale)/2)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(img, op)
	}

	clip := "(none)"
	if len(g.clips) > 0 {
		clip = g.clips[g.index]
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\n%s frame %d/%d\n<- -> clip, R restart",
		g.title, clip, g.sprite.Index()+1, g.sprite.FrameCount()))
}

func (g *clipGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

// spriteSpec resolves a prefab name: "player", "weapon", or an enemy type.
func spriteSpec(name string) (prefabs.SpriteSpec, error) {
	switch name {
	case "player", "weapon":
		spec, err := prefabs.LoadPlayerSpec()
		if err != nil {
			return prefabs.SpriteSpec{}, err
		}
		if name == "weapon" {
			return spec.Weapon, nil
		}
		return spec.Sprite, nil
	default:
		spec, err := prefabs.LoadEnemySpec(strings.TrimPrefix(name, "enemy_"))
		if err != nil {
			return prefabs.SpriteSpec{}, err
		}
		return spec.Sprite, nil
	}
}

func main() {
	name := flag.String("prefab", "player", "player, weapon, or an enemy type such as rat")
	flag.Parse()

	spec, err := spriteSpec(*name)
	if err != nil {
		log.Fatal(err)
	}
	clips, err := spec.BuildClips()
	if err != nil {
		log.Fatal(err)
	}
	sheet, err := assets.LoadImage(spec.Sheet)
	if err != nil {
		log.Fatal(err)
	}

	g := &clipGame{
		sprite: component.NewAnimatedSprite(sheet, spec.FrameW, spec.FrameH, clips...),
		title:  fmt.Sprintf("%s (%s)", *name, spec.Sheet),
	}
	for _, c := range clips {
		g.clips = append(g.clips, c.Name)
	}
	sort.Strings(g.clips)
	g.play(true)

	ebiten.SetWindowSize(viewSize*2, viewSize*2)
	ebiten.SetWindowTitle("clipview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
