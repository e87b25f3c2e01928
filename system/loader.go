package system

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/dungeon/assets"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/obj"
)

// ErrLevelLoad wraps every failure to turn a map into a level.
var ErrLevelLoad = errors.New("level load failed")

// Layer names the loader reads.
const (
	LayerBackground = "background"
	LayerColliders  = "colliders"
	LayerAnimated   = "animated"
	LayerEntities   = "entities"
)

// DefaultTileFrame is the clip duration used when an animated tile's frames
// carry no duration.
const DefaultTileFrame = 100 * time.Millisecond

// LoadInfo summarizes what a load produced, for logs and tools.
type LoadInfo struct {
	Name          string
	Columns       int
	Rows          int
	Solid         int
	AnimatedTiles int
	Entities      int
	Music         string
	// Skipped holds object kinds that were not recognized.
	Skipped []string
}

// Loader builds levels from Tiled maps on FS.
type Loader struct {
	FS      fs.FS
	Factory *Factory

	images map[string]*ebiten.Image
}

func NewLoader(fsys fs.FS, factory *Factory) *Loader {
	if factory == nil {
		factory = NewFactory(nil)
	}
	return &Loader{FS: fsys, Factory: factory}
}

func loadErr(name string, err error) error {
	return fmt.Errorf("system: load %s: %w: %w", name, ErrLevelLoad, err)
}

// Load reads the named map and builds its level: collision grid, then the
// pre-rendered background, then entities, then animated tiles. Nothing is
// returned on failure.
func (l *Loader) Load(name string) (lvl *obj.Level, info LoadInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			lvl, info = nil, LoadInfo{}
			err = loadErr(name, fmt.Errorf("panic: %v", r))
		}
	}()

	m, err := levels.LoadMap(l.FS, name)
	if err != nil {
		return nil, LoadInfo{}, loadErr(name, err)
	}
	if m.TileWidth != common.TileSize || m.TileHeight != common.TileSize {
		return nil, LoadInfo{}, loadErr(name, fmt.Errorf("tile size %dx%d, want %d", m.TileWidth, m.TileHeight, common.TileSize))
	}
	// tileset images are cached per load so disk edits are seen on reload
	l.images = make(map[string]*ebiten.Image)

	w, h := m.PixelSize()
	lvl = obj.NewLevel(m.Name, w, h, buildGrid(m))

	lvl.Background = l.renderBackground(m, w, h)

	info.Skipped, err = l.spawnEntities(m, lvl)
	if err != nil {
		return nil, LoadInfo{}, loadErr(name, err)
	}

	lvl.AnimatedTiles = l.animatedTiles(m)

	info.Name = lvl.Name
	info.Columns, info.Rows = lvl.Columns(), lvl.Rows()
	info.Solid = lvl.Grid.SolidCount()
	info.AnimatedTiles = len(lvl.AnimatedTiles)
	info.Entities = len(lvl.Entities)
	info.Music = lvl.Music
	return lvl, info, nil
}

// buildGrid marks every non-empty colliders cell solid. A map without a
// colliders layer is fully open.
func buildGrid(m *levels.Map) *common.CollisionGrid {
	ly := m.Layer(LayerColliders)
	if ly == nil || ly.Type != levels.TileLayer {
		log.Printf("loader: %s has no %s layer", m.Name, LayerColliders)
		return common.EmptyGrid(m.Width, m.Height)
	}
	return common.NewCollisionGrid(m.Width, m.Height, func(col, row int) bool {
		return ly.At(col, row) != 0
	})
}

func (l *Loader) renderBackground(m *levels.Map, w, h int) *ebiten.Image {
	bg := ebiten.NewImage(w, h)
	for _, name := range []string{LayerBackground, LayerColliders} {
		ly := m.Layer(name)
		if ly == nil || ly.Type != levels.TileLayer {
			continue
		}
		for row := 0; row < ly.Height; row++ {
			for col := 0; col < ly.Width; col++ {
				gid := ly.At(col, row)
				if gid == 0 {
					continue
				}
				img := l.tileImage(m, gid)
				if img == nil {
					continue
				}
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Translate(float64(common.PixelOf(col)), float64(common.PixelOf(row)))
				bg.DrawImage(img, op)
			}
		}
	}
	return bg
}

// sheet returns a tileset's image. Missing images are logged once and
// cached as nil.
func (l *Loader) sheet(ts *levels.Tileset) *ebiten.Image {
	p := ts.ImagePath()
	if img, ok := l.images[p]; ok {
		return img
	}
	var img *ebiten.Image
	if p == "" {
		log.Printf("loader: tileset %q has no image", ts.Name)
	} else if loaded, err := assets.LoadImageFS(l.FS, p); err != nil {
		log.Printf("loader: tileset %q: %v", ts.Name, err)
	} else {
		img = loaded
	}
	l.images[p] = img
	return img
}

func (l *Loader) localImage(ts *levels.Tileset, local uint32) *ebiten.Image {
	sheet := l.sheet(ts)
	if sheet == nil {
		return nil
	}
	b := sheet.Bounds()
	r := ts.TileRect(local).Add(b.Min)
	if !r.In(b) {
		log.Printf("loader: tile %d outside tileset %q %v", local, ts.Name, b)
		return nil
	}
	return sheet.SubImage(r).(*ebiten.Image)
}

func (l *Loader) tileImage(m *levels.Map, gid uint32) *ebiten.Image {
	ts, local, ok := m.Tileset(gid)
	if !ok {
		log.Printf("loader: %s: gid %d has no tileset", m.Name, gid)
		return nil
	}
	return l.localImage(ts, local)
}

// spawnEntities dispatches each object of the entities layer by kind.
func (l *Loader) spawnEntities(m *levels.Map, lvl *obj.Level) ([]string, error) {
	ly := m.Layer(LayerEntities)
	if ly == nil || ly.Type != levels.ObjectGroup {
		log.Printf("loader: %s has no %s layer", m.Name, LayerEntities)
		return nil, nil
	}

	var skipped []string
	for _, o := range ly.Objects {
		x, y := objectOrigin(o)
		switch kind := o.Kind(); kind {
		case "player":
			p, err := l.Factory.NewPlayer(x, y)
			if err != nil {
				return nil, err
			}
			lvl.AddEntity(p)
		case "enemy":
			cfg, defaulted := obj.ResolveEnemyConfig(o.Properties)
			if len(defaulted) > 0 {
				log.Printf("loader: %s: enemy %d at (%d,%d) defaulted %v", m.Name, o.ID, x, y, defaulted)
			}
			e, err := l.Factory.NewEnemy(x, y, cfg)
			if err != nil {
				return nil, err
			}
			lvl.AddEntity(e)
		case "info":
			if music, ok := o.Properties.String("music"); ok {
				lvl.Music = music
			}
		default:
			log.Printf("loader: %s: unknown entity %q (object %d)", m.Name, kind, o.ID)
			skipped = append(skipped, kind)
		}
	}
	return skipped, nil
}

// objectOrigin returns the snapped top-left of an object. Tile objects are
// anchored at their bottom-left corner.
func objectOrigin(o levels.Object) (int, int) {
	x, y := o.X, o.Y
	if o.GID != 0 {
		y -= o.Height
	}
	return common.Snap(int(math.Floor(x))), common.Snap(int(math.Floor(y)))
}

func (l *Loader) animatedTiles(m *levels.Map) []*obj.AnimatedTile {
	ly := m.Layer(LayerAnimated)
	if ly == nil || ly.Type != levels.TileLayer {
		return nil
	}

	sprites := make(map[uint32]*tileFrames)
	var tiles []*obj.AnimatedTile
	for row := 0; row < ly.Height; row++ {
		for col := 0; col < ly.Width; col++ {
			gid := ly.At(col, row)
			if gid == 0 {
				continue
			}
			tf, ok := sprites[gid]
			if !ok {
				tf = l.tileFrames(m, gid)
				sprites[gid] = tf
			}
			var sprite *component.AnimatedSprite
			if tf != nil {
				// each cell gets its own animator over the shared frames
				sprite = component.NewFrameSprite(strconv.FormatUint(uint64(gid), 10), tf.frames, tf.duration, true)
			}
			tiles = append(tiles, obj.NewAnimatedTile(common.PixelOf(col), common.PixelOf(row), gid, sprite))
		}
	}
	return tiles
}

type tileFrames struct {
	frames   []*ebiten.Image
	duration time.Duration
}

// tileFrames resolves the frame images of a tile. A tile without an
// animation is a single static frame; an unresolvable one yields nil.
func (l *Loader) tileFrames(m *levels.Map, gid uint32) *tileFrames {
	ts, local, ok := m.Tileset(gid)
	if !ok {
		log.Printf("loader: %s: animated gid %d has no tileset", m.Name, gid)
		return nil
	}

	def, ok := ts.Tile(local)
	if !ok || len(def.Animation) == 0 {
		return &tileFrames{frames: []*ebiten.Image{l.localImage(ts, local)}, duration: DefaultTileFrame}
	}

	tf := &tileFrames{frames: make([]*ebiten.Image, len(def.Animation))}
	for i, f := range def.Animation {
		tf.frames[i] = l.localImage(ts, f.TileID)
	}
	tf.duration = time.Duration(def.Animation[len(def.Animation)-1].Duration) * time.Millisecond
	if tf.duration <= 0 {
		tf.duration = DefaultTileFrame
	}
	return tf
}

