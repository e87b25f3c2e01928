package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/levels"
)

// Cell glyphs. Entities win over animated tiles, which win over colliders.
const (
	glyphFloor    = '.'
	glyphWall     = '#'
	glyphAnimated = '~'
	glyphPlayer   = '@'
	glyphEnemy    = 'e'
	glyphInfo     = 'i'
	glyphUnknown  = '?'
	glyphRoute    = '*'
)

// maxRouteNodes bounds each route search.
const maxRouteNodes = 4096

var glyphStyles = map[rune]tcell.Style{
	glyphFloor:    tcell.StyleDefault.Foreground(tcell.ColorGray),
	glyphWall:     tcell.StyleDefault.Foreground(tcell.ColorRed),
	glyphAnimated: tcell.StyleDefault.Foreground(tcell.ColorBlue),
	glyphPlayer:   tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
	glyphEnemy:    tcell.StyleDefault.Foreground(tcell.ColorYellow),
	glyphInfo:     tcell.StyleDefault.Foreground(tcell.ColorPurple),
	glyphUnknown:  tcell.StyleDefault.Foreground(tcell.ColorWhite),
	glyphRoute:    tcell.StyleDefault.Foreground(tcell.ColorAqua),
}

// cells renders a map into one glyph per tile.
func cells(m *levels.Map) [][]rune {
	out := make([][]rune, m.Height)
	colliders := m.Layer("colliders")
	animated := m.Layer("animated")
	for row := range out {
		out[row] = make([]rune, m.Width)
		for col := range out[row] {
			switch {
			case animated.At(col, row) != 0:
				out[row][col] = glyphAnimated
			case colliders.At(col, row) != 0:
				out[row][col] = glyphWall
			default:
				out[row][col] = glyphFloor
			}
		}
	}

	ly := m.Layer("entities")
	if ly == nil {
		return out
	}
	for _, o := range ly.Objects {
		c := objectCell(o)
		col, row := c.X, c.Y
		if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
			continue
		}
		switch o.Kind() {
		case "player":
			out[row][col] = glyphPlayer
		case "enemy":
			out[row][col] = glyphEnemy
		case "info":
			out[row][col] = glyphInfo
		default:
			out[row][col] = glyphUnknown
		}
	}
	return out
}

// objectCell is the tile an object is placed on. Tile objects are anchored
// bottom-left.
func objectCell(o levels.Object) image.Point {
	y := o.Y
	if o.GID != 0 {
		y -= o.Height
	}
	return image.Pt(common.TileOf(int(o.X)), common.TileOf(int(y)))
}

// routes finds the walking route from the player to every enemy over the
// colliders layer. Enemies the player cannot reach get no route.
func routes(m *levels.Map) [][]image.Point {
	ly := m.Layer("entities")
	if ly == nil {
		return nil
	}
	colliders := m.Layer("colliders")
	grid := common.NewCollisionGrid(m.Width, m.Height, func(col, row int) bool {
		return colliders.At(col, row) != 0
	})

	var player image.Point
	found := false
	var enemies []image.Point
	for _, o := range ly.Objects {
		switch o.Kind() {
		case "player":
			player, found = objectCell(o), true
		case "enemy":
			enemies = append(enemies, objectCell(o))
		}
	}
	if !found {
		return nil
	}

	var out [][]image.Point
	for _, e := range enemies {
		if p := grid.Path(player, e, maxRouteNodes); p != nil {
			out = append(out, p)
		}
	}
	return out
}

type viewer struct {
	screen tcell.Screen
	name   string
	grid   [][]rune
	routes [][]image.Point
	offX   int
	offY   int

	showRoutes bool
}

// glyph is the rune shown at a cell, with routes drawn over floor.
func (v *viewer) glyph(col, row int) rune {
	g := v.grid[row][col]
	if !v.showRoutes || g != glyphFloor {
		return g
	}
	for _, r := range v.routes {
		for _, p := range r {
			if p.X == col && p.Y == row {
				return glyphRoute
			}
		}
	}
	return g
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	header := fmt.Sprintf("%s  %dx%d  %d routes  arrows scroll, r routes, q quits", v.name, len(v.grid[0]), len(v.grid), len(v.routes))
	for i, r := range header {
		v.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}
	for y := 1; y < h; y++ {
		row := y - 1 + v.offY
		if row >= len(v.grid) {
			break
		}
		for x := 0; x < w; x++ {
			col := x + v.offX
			if col >= len(v.grid[row]) {
				break
			}
			g := v.glyph(col, row)
			v.screen.SetContent(x, y, g, nil, glyphStyles[g])
		}
	}
	v.screen.Show()
}

func (v *viewer) scroll(dx, dy int) {
	w, h := v.screen.Size()
	v.offX = max(0, min(v.offX+dx, len(v.grid[0])-w))
	v.offY = max(0, min(v.offY+dy, len(v.grid)-(h-1)))
}

func (v *viewer) run() {
	for {
		v.draw()
		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return
			case tcell.KeyLeft:
				v.scroll(-1, 0)
			case tcell.KeyRight:
				v.scroll(1, 0)
			case tcell.KeyUp:
				v.scroll(0, -1)
			case tcell.KeyDown:
				v.scroll(0, 1)
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					return
				case 'r':
					v.showRoutes = !v.showRoutes
				}
			}
		}
	}
}

func main() {
	name := flag.String("level", "level-1", "level name in levels/ (.tmj optional)")
	dir := flag.String("dir", "levels", "directory searched before the embedded levels")
	flag.Parse()

	m, err := levels.LoadMap(levels.Source(*dir), *name)
	if err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	defer screen.Fini()

	v := &viewer{screen: screen, name: m.Name, grid: cells(m), routes: routes(m)}
	v.run()
}
