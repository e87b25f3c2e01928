package system

import (
	"image"
	"log"
	"time"

	"github.com/milk9111/dungeon/assets"
	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/obj"
	"github.com/milk9111/dungeon/prefabs"
	"github.com/milk9111/dungeon/sound"
)

// WorldConfig is the static setup of a World.
type WorldConfig struct {
	// Levels is the ordered level sequence. Start indexes into it.
	Levels []string
	Start  int

	ScreenW int
	ScreenH int
	// CameraSmooth is the follow factor, 0 snaps.
	CameraSmooth float64

	Debug   bool
	HUD     *obj.HUD
	Overlay *obj.DebugOverlay
}

// WorldConfigFromSpec turns game.yaml into a world configuration. A HUD
// sheet that cannot be loaded leaves the HUD out.
func WorldConfigFromSpec(spec *prefabs.GameSpec) WorldConfig {
	cfg := WorldConfig{
		ScreenW: common.BaseWidth,
		ScreenH: common.BaseHeight,
	}
	if spec == nil {
		return cfg
	}
	cfg.Levels = append([]string(nil), spec.Levels...)
	cfg.CameraSmooth = spec.Camera.Smoothness

	hud := spec.HUD
	if sheet, err := assets.LoadImage(hud.Sheet); err != nil {
		log.Printf("world: hud: %v", err)
	} else {
		full, empty := image.Pt(0, 0), image.Pt(1, 0)
		if hud.FullHeart.Set() {
			full = image.Pt(*hud.FullHeart.Col, *hud.FullHeart.Row)
		}
		if hud.EmptyHeart.Set() {
			empty = image.Pt(*hud.EmptyHeart.Col, *hud.EmptyHeart.Row)
		}
		cfg.HUD = obj.NewHUD(sheet, full, empty, hud.X, hud.Y, hud.Spacing)
	}

	cfg.Overlay = obj.NewDebugOverlay(
		spec.Debug.ColliderColor.ColorOr(nil),
		spec.Debug.AnimatedColor.ColorOr(nil),
	)
	return cfg
}

// World owns the current level and runs its frame: tiles, entities, then
// one contact pass. It is driven from a single goroutine.
type World struct {
	cfg    WorldConfig
	loader *Loader
	audio  sound.Sink
	clock  func() time.Time

	index int
	level *obj.Level
	info  LoadInfo

	camera    *obj.Camera
	scheduler *Scheduler
	events    component.CombatEventEmitter
	debug     bool
}

// NewWorld creates a world with no level loaded. A nil clock reads the wall
// clock.
func NewWorld(cfg WorldConfig, loader *Loader, audio sound.Sink, clock func() time.Time) *World {
	if audio == nil {
		audio = sound.Nop{}
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		cfg.ScreenW, cfg.ScreenH = common.BaseWidth, common.BaseHeight
	}
	w := &World{
		cfg:    cfg,
		loader: loader,
		audio:  audio,
		clock:  clock,
		index:  cfg.Start,
		camera: obj.NewCamera(cfg.ScreenW, cfg.ScreenH),
		debug:  cfg.Debug,
	}
	w.camera.SetSmooth(cfg.CameraSmooth)
	w.scheduler = NewScheduler(
		SystemFunc(updateTiles),
		SystemFunc(updateEntities),
		SystemFunc(resolveContacts),
		SystemFunc(followPlayer),
	)
	return w
}

// Load builds the level at index and replaces the current one. On failure
// the current level is kept and false is returned.
func (w *World) Load(index int) bool {
	if index < 0 || index >= len(w.cfg.Levels) {
		log.Printf("world: level index %d out of range [0,%d)", index, len(w.cfg.Levels))
		return false
	}
	if w.loader == nil {
		log.Printf("world: no loader")
		return false
	}
	name := w.cfg.Levels[index]
	lvl, info, err := w.loader.Load(name)
	if err != nil {
		log.Printf("world: %v", err)
		return false
	}
	if lvl.Player() == nil {
		log.Printf("world: level %s has no player", name)
	}

	w.level, w.info, w.index = lvl, info, index
	w.camera.SetWorldBounds(lvl.WidthPx, lvl.HeightPx)
	if p := lvl.Player(); p != nil {
		cx, cy := playerCenter(p)
		w.camera.SnapTo(cx, cy)
	} else {
		w.camera.SnapTo(0, 0)
	}

	if info.Music != "" {
		w.audio.StopMusic()
		if err := w.audio.PlayMusic(info.Music); err != nil {
			log.Printf("world: music %q: %v", info.Music, err)
		}
	}
	log.Printf("world: loaded %s (%dx%d, %d solid, %d entities, %d animated)",
		info.Name, info.Columns, info.Rows, info.Solid, info.Entities, info.AnimatedTiles)
	return true
}

// LoadNamed loads a level by name, appending it to the sequence when it is
// not already part of it.
func (w *World) LoadNamed(name string) bool {
	for i, n := range w.cfg.Levels {
		if n == name {
			return w.Load(i)
		}
	}
	w.cfg.Levels = append(w.cfg.Levels, name)
	if !w.Load(len(w.cfg.Levels) - 1) {
		w.cfg.Levels = w.cfg.Levels[:len(w.cfg.Levels)-1]
		return false
	}
	return true
}

func (w *World) LoadCurrent() bool { return w.Load(w.index) }

// Reload rebuilds the current level from its map.
func (w *World) Reload() bool { return w.Load(w.index) }

// NextLevel advances the sequence. The index only moves when the next
// level loads.
func (w *World) NextLevel() bool {
	if w.index+1 >= len(w.cfg.Levels) {
		log.Printf("world: no level after %s", w.LevelName())
		return false
	}
	return w.Load(w.index + 1)
}

func (w *World) Update() { w.UpdateAt(w.clock()) }

// UpdateAt runs one frame at now.
func (w *World) UpdateAt(now time.Time) {
	if w.level == nil {
		return
	}
	w.scheduler.Update(w, now)
}

func updateTiles(w *World, now time.Time) {
	for _, t := range w.level.AnimatedTiles {
		t.Update(now, nil)
	}
}

// updateEntities advances every updatable. An entity that panics is logged
// and disabled; the frame carries on.
func updateEntities(w *World, now time.Time) {
	// Disable edits the list, so iterate over a copy
	for _, u := range append([]obj.Updatable(nil), w.level.Updatables()...) {
		w.safeUpdate(u, now)
	}
}

func (w *World) safeUpdate(u obj.Updatable, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			x, y := u.Position()
			log.Printf("world: %s at (%d,%d) panicked, disabling: %v", u.Name(), x, y, r)
			w.level.Disable(u)
		}
	}()
	u.Update(now, w.level)
}

func resolveContacts(w *World, now time.Time) {
	ResolveContacts(w.level, now, &w.events)
}

func followPlayer(w *World, _ time.Time) {
	if p := w.level.Player(); p != nil {
		w.camera.Update(playerCenter(p))
	}
}

func playerCenter(p *obj.Player) (float64, float64) {
	return float64(p.X + common.TileSize/2), float64(p.Y + common.TileSize/2)
}

// Draw renders the background, visible animated tiles, entities in list
// order, the debug overlay when enabled, and finally the HUD.
func (w *World) Draw(dst component.Canvas) {
	if w.level == nil || dst == nil {
		return
	}
	now := w.clock()
	cam := w.camera.Offset()

	w.level.DrawBackground(dst, cam)
	for _, t := range w.level.AnimatedTiles {
		if w.camera.Visible(t.X, t.Y) {
			t.Draw(dst, cam, now)
		}
	}
	for _, e := range w.level.Entities {
		e.Draw(dst, cam, now)
	}
	if w.debug {
		w.cfg.Overlay.Draw(dst, w.level, w.camera)
	}
	if p := w.level.Player(); p != nil {
		w.cfg.HUD.Draw(dst, p.Health())
	}
}

// RequestMove asks the player to step one tile. Exactly one of dx, dy must
// be -1 or +1 and the destination must be open in the collision grid.
func (w *World) RequestMove(dx, dy int) bool {
	p := w.Player()
	if p == nil {
		return false
	}
	if !unitStep(dx, dy) {
		return false
	}
	nx := p.X + dx*common.TileSize
	ny := p.Y + dy*common.TileSize
	if w.level.PositionBlocked(nx, ny) {
		return false
	}
	return p.Move(dx, dy, w.level.WidthPx, w.level.HeightPx, w.clock())
}

func unitStep(dx, dy int) bool {
	switch {
	case dy == 0:
		return dx == 1 || dx == -1
	case dx == 0:
		return dy == 1 || dy == -1
	}
	return false
}

func (w *World) RequestAttack() bool {
	p := w.Player()
	if p == nil {
		return false
	}
	return p.StartAttack(w.clock())
}

// ToggleDebug flips the debug overlay and returns the new setting.
func (w *World) ToggleDebug() bool {
	w.debug = !w.debug
	log.Printf("world: debug %v", w.debug)
	return w.debug
}

func (w *World) Debug() bool { return w.debug }

func (w *World) Player() *obj.Player {
	if w.level == nil {
		return nil
	}
	return w.level.Player()
}

func (w *World) Level() *obj.Level { return w.level }

func (w *World) LevelName() string {
	if w.level == nil {
		return ""
	}
	return w.level.Name
}

func (w *World) Info() LoadInfo { return w.info }

func (w *World) Index() int { return w.index }

func (w *World) Camera() *obj.Camera { return w.camera }

func (w *World) Scheduler() *Scheduler { return w.scheduler }

// Subscribe registers a handler for damage and death events.
func (w *World) Subscribe(h component.CombatEventHandler) {
	w.events.Subscribe(h)
}
