// Command genplaceholders writes the placeholder sprite sheets, tileset and
// sounds embedded by the game. Run it from the repository root.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/gopxl/beep"
	"github.com/milk9111/dungeon/common"
)

const cell = common.TileSize

func main() {
	out := flag.String("out", ".", "repository root to write into")
	flag.Parse()

	images := map[string]*image.NRGBA{
		"assets/images/player.png":           playerSheet(),
		"assets/images/weapons_animated.png": weaponSheet(),
		"assets/images/enemy_generic.png":    enemySheet(color.NRGBA{0x9a, 0x4d, 0xc4, 0xff}),
		"assets/images/enemy_rat.png":        enemySheet(color.NRGBA{0x8a, 0x6f, 0x55, 0xff}),
		"assets/images/ui_hud.png":           hudSheet(),
		"levels/tilesets/dungeon.png":        tilesetSheet(),
	}
	for name, img := range images {
		if err := writePNG(filepath.Join(*out, name), img); err != nil {
			log.Fatal(err)
		}
	}

	sounds := map[string]func() (beep.Streamer, error){
		"assets/sounds/sword_2.wav": swordSwing,
		"assets/music/dungeon.wav":  melody,
	}
	for name, build := range sounds {
		s, err := build()
		if err != nil {
			log.Fatalf("genplaceholders: %s: %v", name, err)
		}
		if err := writeWAV(filepath.Join(*out, name), s); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("genplaceholders: wrote %d images and %d sounds", len(images), len(sounds))
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// figure draws a small body in the cell at (col, row). bob shifts it
// vertically and eye marks the facing side.
func figure(img *image.NRGBA, col, row, bob int, right bool, body color.NRGBA) {
	ox, oy := col*cell, row*cell
	fillRect(img, image.Rect(ox+4, oy+3+bob, ox+12, oy+14+bob), body)
	eye := ox + 5
	if right {
		eye = ox + 9
	}
	fillRect(img, image.Rect(eye, oy+5+bob, eye+2, oy+7+bob), color.NRGBA{0xff, 0xff, 0xff, 0xff})
}
