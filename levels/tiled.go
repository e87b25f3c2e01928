package levels

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// ErrInvalidMap is wrapped by every map parse or validation failure.
var ErrInvalidMap = errors.New("invalid map")

// Tiled stores flip/rotation flags in the top bits of each GID.
const gidMask = 0x0FFFFFFF

// Layer type tags used by Tiled.
const (
	TileLayer   = "tilelayer"
	ObjectGroup = "objectgroup"
	GroupLayer  = "group"
)

// Map is an orthogonal Tiled map in JSON form.
type Map struct {
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	TileWidth   int        `json:"tilewidth"`
	TileHeight  int        `json:"tileheight"`
	Orientation string     `json:"orientation"`
	Layers      []Layer    `json:"layers"`
	Tilesets    []Tileset  `json:"tilesets"`
	Properties  Properties `json:"properties,omitempty"`

	// Name is the level name the map was loaded under.
	Name string `json:"-"`
}

type Layer struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Data        json.RawMessage `json:"data,omitempty"`
	Encoding    string          `json:"encoding,omitempty"`
	Compression string          `json:"compression,omitempty"`
	Objects     []Object        `json:"objects,omitempty"`
	Layers      []Layer         `json:"layers,omitempty"`
	Properties  Properties      `json:"properties,omitempty"`

	// Tiles holds the decoded GIDs of a tile layer, flags stripped.
	Tiles []uint32 `json:"-"`
}

// Object is a placed object in an object group. Tile objects carry a GID.
type Object struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Class      string     `json:"class"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	GID        uint32     `json:"gid,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// Kind is the tag an object is dispatched on: its name, or its type/class
// when unnamed, lower-cased.
func (o Object) Kind() string {
	for _, s := range []string{o.Name, o.Type, o.Class} {
		if s = strings.TrimSpace(s); s != "" {
			return strings.ToLower(s)
		}
	}
	return ""
}

type Tileset struct {
	FirstGID    uint32    `json:"firstgid"`
	Source      string    `json:"source,omitempty"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	ImageWidth  int       `json:"imagewidth"`
	ImageHeight int       `json:"imageheight"`
	TileWidth   int       `json:"tilewidth"`
	TileHeight  int       `json:"tileheight"`
	Columns     int       `json:"columns"`
	TileCount   int       `json:"tilecount"`
	Margin      int       `json:"margin"`
	Spacing     int       `json:"spacing"`
	Tiles       []TileDef `json:"tiles,omitempty"`

	dir string
}

// TileDef holds per-tile metadata such as animation frames.
type TileDef struct {
	ID         uint32     `json:"id"`
	Animation  []Frame    `json:"animation,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// Frame is one step of a tile animation. Duration is in milliseconds.
type Frame struct {
	TileID   uint32 `json:"tileid"`
	Duration int    `json:"duration"`
}

// LoadMap reads and validates the named map from fsys. The ".tmj" extension
// is optional. External tilesets are resolved relative to the map file.
func LoadMap(fsys fs.FS, name string) (*Map, error) {
	p := MapPath(name)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", p, err)
	}
	m, err := ParseMap(data)
	if err != nil {
		return nil, fmt.Errorf("levels: parse %s: %w", p, err)
	}
	m.Name = strings.TrimSuffix(path.Base(p), path.Ext(p))

	dir := path.Dir(p)
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		ts.dir = dir
		if ts.Source == "" {
			continue
		}
		if err := ts.loadExternal(fsys, dir); err != nil {
			return nil, fmt.Errorf("levels: tileset %s: %w", ts.Source, err)
		}
	}
	sort.Slice(m.Tilesets, func(i, j int) bool { return m.Tilesets[i].FirstGID < m.Tilesets[j].FirstGID })

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("levels: validate %s: %w", p, err)
	}
	return m, nil
}

// MapPath normalizes a level name to its file path.
func MapPath(name string) string {
	p := path.Clean(strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "levels/"))
	if path.Ext(p) == "" {
		p += ".tmj"
	}
	return p
}

// ParseMap decodes map JSON and its tile layer data. It does not resolve
// external tilesets.
func ParseMap(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	m.Layers = flatten(m.Layers)
	for i := range m.Layers {
		ly := &m.Layers[i]
		if ly.Type != TileLayer {
			continue
		}
		if ly.Width == 0 && ly.Height == 0 {
			ly.Width, ly.Height = m.Width, m.Height
		}
		tiles, err := decodeData(ly.Data, ly.Encoding, ly.Compression)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: %v", ErrInvalidMap, ly.Name, err)
		}
		ly.Tiles = tiles
	}
	return &m, nil
}

// flatten lifts the children of group layers into one list, keeping order.
func flatten(layers []Layer) []Layer {
	out := make([]Layer, 0, len(layers))
	for _, ly := range layers {
		if ly.Type == GroupLayer {
			out = append(out, flatten(ly.Layers)...)
			continue
		}
		out = append(out, ly)
	}
	return out
}

func (ts *Tileset) loadExternal(fsys fs.FS, dir string) error {
	p := path.Join(dir, ts.Source)
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return err
	}
	var ext Tileset
	if err := json.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	ext.FirstGID = ts.FirstGID
	ext.Source = ts.Source
	ext.dir = path.Dir(p)
	*ts = ext
	return nil
}

// Validate checks the structural invariants the loader relies on.
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMap, m.Width, m.Height)
	}
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidMap, m.TileWidth, m.TileHeight)
	}
	if m.Orientation != "" && m.Orientation != "orthogonal" {
		return fmt.Errorf("%w: orientation %q", ErrInvalidMap, m.Orientation)
	}
	for _, ly := range m.Layers {
		if ly.Type != TileLayer {
			continue
		}
		if len(ly.Tiles) != m.Width*m.Height {
			return fmt.Errorf("%w: layer %q has %d tiles, want %d", ErrInvalidMap, ly.Name, len(ly.Tiles), m.Width*m.Height)
		}
	}
	for _, ts := range m.Tilesets {
		if ts.FirstGID == 0 {
			return fmt.Errorf("%w: tileset %q has firstgid 0", ErrInvalidMap, ts.Name)
		}
	}
	return nil
}

// Layer returns the first layer with the given name, compared
// case-insensitively.
func (m *Map) Layer(name string) *Layer {
	for i := range m.Layers {
		if strings.EqualFold(m.Layers[i].Name, name) {
			return &m.Layers[i]
		}
	}
	return nil
}

// PixelSize returns the map extent in pixels.
func (m *Map) PixelSize() (int, int) {
	return m.Width * m.TileWidth, m.Height * m.TileHeight
}

// At returns the GID at (col, row), or 0 outside the layer.
func (ly *Layer) At(col, row int) uint32 {
	if ly == nil || col < 0 || row < 0 || col >= ly.Width || row >= ly.Height {
		return 0
	}
	i := row*ly.Width + col
	if i >= len(ly.Tiles) {
		return 0
	}
	return ly.Tiles[i]
}

// Tileset returns the tileset owning gid and the tile's local id.
func (m *Map) Tileset(gid uint32) (*Tileset, uint32, bool) {
	gid &= gidMask
	if gid == 0 {
		return nil, 0, false
	}
	for i := len(m.Tilesets) - 1; i >= 0; i-- {
		ts := &m.Tilesets[i]
		if gid >= ts.FirstGID {
			local := gid - ts.FirstGID
			if ts.TileCount > 0 && int(local) >= ts.TileCount {
				return nil, 0, false
			}
			return ts, local, true
		}
	}
	return nil, 0, false
}

// Tile returns the metadata entry for a local tile id, if declared.
func (ts *Tileset) Tile(local uint32) (TileDef, bool) {
	for _, t := range ts.Tiles {
		if t.ID == local {
			return t, true
		}
	}
	return TileDef{}, false
}

// TileRect returns the source rectangle of a local tile id within the
// tileset image.
func (ts *Tileset) TileRect(local uint32) image.Rectangle {
	cols := ts.Columns
	if cols <= 0 && ts.TileWidth > 0 {
		cols = (ts.ImageWidth - 2*ts.Margin + ts.Spacing) / (ts.TileWidth + ts.Spacing)
	}
	if cols <= 0 {
		cols = 1
	}
	col := int(local) % cols
	row := int(local) / cols
	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// ImagePath returns the tileset image path relative to the map filesystem.
func (ts *Tileset) ImagePath() string {
	if ts.Image == "" {
		return ""
	}
	return path.Join(ts.dir, ts.Image)
}

func decodeData(raw json.RawMessage, encoding, compression string) ([]uint32, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var gids []uint32
		if err := json.Unmarshal(raw, &gids); err != nil {
			return nil, err
		}
		for i := range gids {
			gids[i] &= gidMask
		}
		return gids, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if encoding != "base64" {
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	if b, err = decompress(b, compression); err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("data length %d not a multiple of 4", len(b))
	}
	gids := make([]uint32, len(b)/4)
	for i := range gids {
		gids[i] = binary.LittleEndian.Uint32(b[i*4:]) & gidMask
	}
	return gids, nil
}

func decompress(b []byte, compression string) ([]byte, error) {
	switch compression {
	case "":
		return b, nil
	case "zlib":
		r, err := zlib.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("zlib: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case "zstd":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		return dec.DecodeAll(b, nil)
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
}
