package system

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/levels"
	"github.com/milk9111/dungeon/obj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// tinyMap is a 6x4 room walled on every side. Two vertical enemies share
// the tile below the player; the player is a tile object.
const tinyMap = `{
  "width": 6, "height": 4, "tilewidth": 16, "tileheight": 16, "orientation": "orthogonal",
  "layers": [
    {"name": "background", "type": "tilelayer", "data": [
      1,1,1,1,1,1, 1,1,1,1,1,1, 1,1,1,1,1,1, 1,1,1,1,1,1]},
    {"name": "colliders", "type": "tilelayer", "data": [
      2,2,2,2,2,2, 2,0,0,0,0,2, 2,0,0,0,0,2, 2,2,2,2,2,2]},
    {"name": "animated", "type": "tilelayer", "data": [
      0,0,0,0,0,0, 0,0,0,3,2,0, 0,0,0,0,99,0, 0,0,0,0,0,0]},
    {"name": "entities", "type": "objectgroup", "objects": [
      {"id": 1, "name": "player", "gid": 1, "x": 16, "y": 32, "width": 16, "height": 16},
      {"id": 2, "name": "enemy", "x": 16, "y": 32, "width": 16, "height": 16, "properties": [
        {"name": "enemy_movement", "type": "string", "value": "vertical"},
        {"name": "blocks", "type": "int", "value": 1}]},
      {"id": 3, "name": "enemy", "x": 18, "y": 35, "width": 16, "height": 16, "properties": [
        {"name": "enemy_movement", "type": "string", "value": "vertical"},
        {"name": "blocks", "type": "int", "value": 1}]},
      {"id": 4, "name": "info", "properties": [{"name": "music", "type": "string", "value": "theme"}]},
      {"id": 5, "name": "chest", "x": 48, "y": 16}
    ]}
  ],
  "tilesets": [{"firstgid": 1, "source": "tiles.tsj"}]
}`

const tinyTileset = `{
  "name": "tiles", "image": "tiles.png", "imagewidth": 64, "imageheight": 16,
  "tilewidth": 16, "tileheight": 16, "columns": 4, "tilecount": 4,
  "tiles": [{"id": 2, "animation": [{"tileid": 2, "duration": 200}, {"tileid": 3, "duration": 300}]}]
}`

func tilesPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 64, 16))))
	return buf.Bytes()
}

func testLevels(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"tiny.tmj":  {Data: []byte(tinyMap)},
		"tiles.tsj": {Data: []byte(tinyTileset)},
		"tiles.png": {Data: tilesPNG(t)},
	}
}

func TestLoaderBuildsLevel(t *testing.T) {
	l := NewLoader(testLevels(t), nil)
	lvl, info, err := l.Load("tiny")
	require.NoError(t, err)
	require.NotNil(t, lvl)

	assert.Equal(t, "tiny", lvl.Name)
	assert.Equal(t, 96, lvl.WidthPx)
	assert.Equal(t, 64, lvl.HeightPx)
	assert.NotNil(t, lvl.Background)

	assert.Equal(t, 6, info.Columns)
	assert.Equal(t, 4, info.Rows)
	assert.Equal(t, 16, info.Solid)
	assert.True(t, lvl.Grid.Blocked(0, 0))
	assert.False(t, lvl.Grid.Blocked(1, 1))
	assert.True(t, lvl.Grid.Blocked(-1, 2), "outside the grid is blocked")

	p := lvl.Player()
	require.NotNil(t, p)
	x, y := p.Position()
	assert.Equal(t, 16, x)
	assert.Equal(t, 16, y, "tile objects are anchored bottom-left")

	assert.Len(t, lvl.Hazards(), 2)
	for _, h := range lvl.Hazards() {
		e, ok := h.(*obj.Enemy)
		require.True(t, ok)
		assert.Equal(t, obj.AxisVertical, e.Config().Axis)
		assert.Equal(t, obj.DefaultEnemyType, e.Config().Type)
		ex, ey := e.Position()
		assert.Equal(t, 16, ex, "positions are snapped")
		assert.Equal(t, 32, ey)
	}

	assert.Equal(t, "theme", lvl.Music)
	assert.Equal(t, "theme", info.Music)
	assert.Equal(t, []string{"chest"}, info.Skipped)
	assert.Equal(t, 3, info.Entities, "info objects are not entities")
}

func TestLoaderAnimatedTiles(t *testing.T) {
	lvl, info, err := NewLoader(testLevels(t), nil).Load("tiny")
	require.NoError(t, err)
	require.Len(t, lvl.AnimatedTiles, 3)
	assert.Equal(t, 3, info.AnimatedTiles)

	tests := []struct {
		name   string
		x, y   int
		frames int
	}{
		{name: "animated", x: 48, y: 16, frames: 2},
		{name: "static", x: 64, y: 16, frames: 1},
		{name: "unresolvable", x: 64, y: 32, frames: 0},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := lvl.AnimatedTiles[i]
			assert.Equal(t, tt.x, tile.X)
			assert.Equal(t, tt.y, tile.Y)
			assert.Equal(t, tt.frames, tile.Frames())
		})
	}
}

func TestLoaderFailures(t *testing.T) {
	fsys := testLevels(t)
	fsys["broken.tmj"] = &fstest.MapFile{Data: []byte(`{"width": 2,`)}
	fsys["big.tmj"] = &fstest.MapFile{Data: []byte(`{"width": 1, "height": 1, "tilewidth": 32, "tileheight": 32,
		"layers": [{"name": "colliders", "type": "tilelayer", "data": [0]}]}`)}
	fsys["short.tmj"] = &fstest.MapFile{Data: []byte(`{"width": 2, "height": 2, "tilewidth": 16, "tileheight": 16,
		"layers": [{"name": "colliders", "type": "tilelayer", "data": [0, 0, 0]}]}`)}

	for _, name := range []string{"missing", "broken", "big", "short"} {
		t.Run(name, func(t *testing.T) {
			lvl, _, err := NewLoader(fsys, nil).Load(name)
			require.ErrorIs(t, err, ErrLevelLoad)
			assert.Nil(t, lvl)
		})
	}
}

func TestLoaderWithoutOptionalLayers(t *testing.T) {
	fsys := fstest.MapFS{
		"bare.tmj": {Data: []byte(`{"width": 3, "height": 2, "tilewidth": 16, "tileheight": 16, "layers": []}`)},
	}
	lvl, info, err := NewLoader(fsys, nil).Load("bare")
	require.NoError(t, err)
	assert.Nil(t, lvl.Player())
	assert.Zero(t, info.Solid)
	assert.Empty(t, lvl.AnimatedTiles)
	assert.False(t, lvl.PositionBlocked(16, 16))
	assert.True(t, lvl.PositionBlocked(48, 0))
}

func TestLoaderEmbeddedLevels(t *testing.T) {
	l := NewLoader(levels.LevelsFS, nil)

	t.Run("level-1", func(t *testing.T) {
		lvl, info, err := l.Load("level-1")
		require.NoError(t, err)
		require.NotNil(t, lvl.Player())
		assert.Equal(t, 32, lvl.Player().X)
		assert.Equal(t, 32, lvl.Player().Y)
		assert.Equal(t, "dungeon", info.Music)
		require.Len(t, lvl.Hazards(), 2)

		rat := lvl.Hazards()[0].(*obj.Enemy)
		assert.Equal(t, obj.EnemyConfig{Type: "rat", Axis: obj.AxisHorizontal, Blocks: 3}, rat.Config())
		generic := lvl.Hazards()[1].(*obj.Enemy)
		assert.Equal(t, obj.EnemyConfig{Type: "generic", Axis: obj.AxisVertical, Blocks: 2}, generic.Config())
		assert.NotEmpty(t, lvl.AnimatedTiles)
	})

	t.Run("level-2", func(t *testing.T) {
		lvl, info, err := l.Load("level-2")
		require.NoError(t, err)
		require.NotNil(t, lvl.Player())
		assert.Equal(t, common.TileOf(192), common.TileOf(lvl.Player().Y))
		assert.Equal(t, "dungeon.ogg", info.Music)
		require.Len(t, lvl.Hazards(), 3)

		first := lvl.Hazards()[0].(*obj.Enemy)
		assert.Equal(t, obj.EnemyConfig{Type: "rat", Axis: obj.AxisVertical, Blocks: 4}, first.Config())
		assert.Equal(t, 5, lvl.Hazards()[1].(*obj.Enemy).Config().Blocks)
	})
}
