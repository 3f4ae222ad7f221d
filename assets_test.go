package assets

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lupi-engine/assets/palette"
	"github.com/lupi-engine/assets/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const townTMJ = `{ "compressionlevel":-1,
 "height":2,
 "infinite":false,
 "layers":[
        {
         "data":[1, 0, 2, 0],
         "height":2,
         "id":1,
         "name":"tiles",
         "opacity":1,
         "type":"tilelayer",
         "visible":true,
         "width":2,
         "x":0,
         "y":0
        },
        {
         "data":[3, 0, 0, 0],
         "height":2,
         "id":2,
         "name":"collision",
         "opacity":1,
         "type":"tilelayer",
         "visible":true,
         "width":2,
         "x":0,
         "y":0
        },
        {
         "data":[0, 0],
         "height":1,
         "id":3,
         "name":"pois",
         "opacity":1,
         "type":"tilelayer",
         "visible":true,
         "width":2,
         "x":0,
         "y":0
        }],
 "orientation":"orthogonal",
 "type":"map",
 "width":2
}`

const brokenTMJ = `{ "layers":[
        {
         "data":[1, 2, 3],
         "height":2,
         "name":"tiles",
         "width":2
        }]
}`

func testLogger() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
}

func writePNG(t *testing.T, path string, m image.Image) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func solid(w, h int, c color.Color) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, c)
		}
	}
	return m
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.tmj"), "")
	writeFile(t, filepath.Join(dir, "a.tmj"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.tmj"), "")
	writeFile(t, filepath.Join(dir, ".hidden.tmj"), "")
	writeFile(t, filepath.Join(dir, ".git", "d.tmj"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "e.TMJ"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir.tmj"), 0755))

	files, err := Scan(context.Background(), dir, ".tmj")
	require.NoError(t, err)

	assert.Equal(t, []ScannedFile{
		{filepath.Join(dir, "a.tmj"), "a"},
		{filepath.Join(dir, "b.tmj"), "b"},
		{filepath.Join(dir, "sub", "c.tmj"), "c"},
	}, files)
}

func TestScanMissingRoot(t *testing.T) {
	files, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), ".png")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.png"), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The walk either finishes before noticing or reports the cancellation
	files, err := Scan(ctx, dir, ".png")
	if err != nil {
		assert.Empty(t, files)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("game")
	assert.Equal(t, filepath.Join("game", "maps"), cfg.MapsDir)
	assert.Equal(t, "game", cfg.SpritesDir)
	assert.Equal(t, filepath.Join("game", "palette.lua"), cfg.PalettePath)
	assert.Equal(t, "sprites", cfg.SpritesModule)
}

func TestLoadMaps(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "town.tmj"), townTMJ)
	writeFile(t, filepath.Join(dir, "maps", "dungeon", "broken.tmj"), brokenTMJ)
	writeFile(t, filepath.Join(dir, "maps", "empty.tmj"), "{}")

	l := New(DefaultConfig(dir), nil, testLogger())
	require.NoError(t, l.LoadMaps(context.Background()))

	r := l.Report()
	assert.Equal(t, 3, r.MapsFound)
	assert.Equal(t, 1, r.MapsLoaded)
	assert.Equal(t, 2, r.MapsRejected)
	assert.Equal(t, 1, r.LayersDropped)

	s := l.State()
	require.Contains(t, s.Maps, "town")
	assert.Nil(t, s.Maps["town"].POIs)
	assert.Equal(t, []string{"town"}, s.Modules.Names())

	v, err := s.Modules.Require("town")
	require.NoError(t, err)
	assert.Equal(t, map[int]map[int][]int{
		1: {1: {1, 3}},
		2: {1: {2}},
	}, v)
}

func TestLoadSprites(t *testing.T) {
	dir := t.TempDir()

	red := color.NRGBA{0xff, 0, 0, 0xff}
	green := color.NRGBA{0, 0xff, 0, 0xff}

	hero := solid(2, 2, red)
	hero.Set(1, 1, green)
	writePNG(t, filepath.Join(dir, "sprites", "hero.png"), hero)
	writePNG(t, filepath.Join(dir, "sprites", "items", "coin.png"), solid(1, 1, green))
	writeFile(t, filepath.Join(dir, "sprites", "bad.png"), "not a png")

	// An existing palette keeps its order, new colors are appended
	white := palette.Encode(0xff, 0xff, 0xff)
	p := palette.New()
	p.Insert(white)
	require.NoError(t, palette.Save(filepath.Join(dir, "palette.lua"), p))

	l := New(DefaultConfig(dir), nil, testLogger())
	require.NoError(t, l.LoadSprites(context.Background()))

	r := l.Report()
	assert.Equal(t, 3, r.SpritesFound)
	assert.Equal(t, 2, r.SpritesIndexed)
	assert.Equal(t, 1, r.SpritesSkipped)
	assert.True(t, r.PaletteLoaded)
	assert.True(t, r.PaletteSaved)
	assert.Equal(t, 4, r.Colors)

	s := l.State()
	want := []palette.Color{0, white, palette.FromColor(red), palette.FromColor(green)}
	assert.Equal(t, want, s.Palette.Colors())

	saved, ok, err := palette.Load(filepath.Join(dir, "palette.lua"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, saved.Colors())

	// Lexical order: sprites/hero.png before sprites/items/coin.png
	assert.Equal(t, 0, s.Sprites.Lookup("hero"))
	assert.Equal(t, 1, s.Sprites.Lookup("coin"))
	assert.Equal(t, -1, s.Sprites.Lookup("bad"))
	assert.Equal(t, []byte{2, 2, 2, 3}, s.Sheets.Sheet(0).Indices())
	assert.Equal(t, []byte{3}, s.Sheets.Sheet(1).Indices())

	_, ok = s.Modules.Global(SpriteSheetsGlobal)
	assert.False(t, ok)

	v, err := s.Modules.Require("sprites")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"hero": 0, "coin": 1}, v)

	g, ok := s.Modules.Global(SpriteSheetsGlobal)
	assert.True(t, ok)
	assert.Equal(t, v, g)
}

func TestLoadSpritesWithoutImages(t *testing.T) {
	dir := t.TempDir()

	l := New(DefaultConfig(dir), nil, testLogger())
	require.NoError(t, l.LoadSprites(context.Background()))

	b, err := ioutil.ReadFile(filepath.Join(dir, "palette.lua"))
	require.NoError(t, err)
	assert.Equal(t, "Palette = {0x0000}\n", string(b))
	assert.False(t, l.Report().PaletteLoaded)
}

func TestLoadSpritesPaletteOverflow(t *testing.T) {
	dir := t.TempDir()

	// 20x20 distinct colors
	m := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			m.Set(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), 0x80, 0xff})
		}
	}
	writePNG(t, filepath.Join(dir, "big.png"), m)

	l := New(DefaultConfig(dir), nil, testLogger())
	require.NoError(t, l.LoadSprites(context.Background()))

	r := l.Report()
	assert.Equal(t, palette.MaxColors, r.Colors)
	assert.Equal(t, 401-palette.MaxColors, r.ColorsRefused)

	b, err := ioutil.ReadFile(filepath.Join(dir, "palette.lua"))
	require.NoError(t, err)
	assert.Equal(t, palette.MaxColors, strings.Count(string(b), "0x"))

	// Refused colors index as 0
	s := l.State().Sheets.Sheet(0)
	require.NotNil(t, s)
	assert.Equal(t, byte(0), s.Indices()[399])
	assert.Equal(t, 400, s.Len())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "town.tmj"), townTMJ)
	writeFile(t, filepath.Join(dir, "maps", "broken.tmj"), brokenTMJ)

	ruler := solid(4, 4, color.NRGBA{0, 0, 0xff, 0xff})
	gray := color.NRGBA{0x42, 0x42, 0x42, 0xff}
	ruler.Set(0, 0, gray)
	ruler.Set(1, 0, gray)
	ruler.Set(0, 1, gray)
	writePNG(t, filepath.Join(dir, "sprites", "tiles.png"), ruler)

	db, err := NewAssetDB(filepath.Join(t.TempDir(), "assets.db"))
	require.NoError(t, err)
	defer db.Close()

	l := New(DefaultConfig(dir), db, testLogger())
	r, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, r.MapsLoaded)
	assert.Equal(t, 1, r.MapsRejected)
	assert.Equal(t, 1, r.SpritesIndexed)

	records, err := db.Assets()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, KindMap, records[0].Kind)
	assert.Equal(t, "broken", records[0].Name)
	assert.Equal(t, StatusRejected, records[0].Status)
	assert.Contains(t, records[0].Detail, "size mismatch")
	assert.Equal(t, "town", records[1].Name)
	assert.Equal(t, StatusLoaded, records[1].Status)
	assert.Len(t, records[1].SHA1, 40)
	assert.Equal(t, KindSprite, records[2].Kind)
	assert.Equal(t, "tiles", records[2].Name)
	assert.Len(t, records[2].SHA1, 40)

	// One 2x2 ruler tile each way, leaving a single 2x2 tile of blue
	s, slot, err := db.FindSheet("tiles")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 0, slot)
	assert.Equal(t, 2, s.TileWidth)
	assert.Equal(t, 2, s.TileHeight)
	assert.Equal(t, 1, s.TileCount())

	p, err := db.Palette()
	require.NoError(t, err)
	assert.Equal(t, l.State().Palette.Colors(), p.Colors())

	blue, ok := p.Index(palette.Encode(0, 0, 0xff))
	require.True(t, ok)
	assert.Equal(t, []byte{byte(blue), byte(blue), byte(blue), byte(blue)}, s.Indices())

	missing, _, err := db.FindSheet("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// A second load starts from an empty manifest
	l = New(DefaultConfig(dir), db, testLogger())
	_, err = l.Load(context.Background())
	require.NoError(t, err)
	records, err = db.Assets()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRecordAssetReplaces(t *testing.T) {
	db, err := NewAssetDB(filepath.Join(t.TempDir(), "assets.db"))
	require.NoError(t, err)
	defer db.Close()

	id, err := db.RecordAsset(KindSprite, "hero", "a/hero.png", "AA", StatusLoaded, "")
	require.NoError(t, err)

	s := &sprite.Sheet{TileWidth: 1, TileHeight: 1}
	s.Append(1)
	require.NoError(t, db.StoreSheet(id, 0, s))

	again, err := db.RecordAsset(KindSprite, "hero", "b/hero.png", "BB", StatusSkipped, "gone")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	found, _, err := db.FindSheet("hero")
	require.NoError(t, err)
	assert.Nil(t, found)

	records, err := db.Assets()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b/hero.png", records[0].Path)
	assert.Equal(t, StatusSkipped, records[0].Status)
}

func TestKindStatusString(t *testing.T) {
	assert.Equal(t, "map", KindMap.String())
	assert.Equal(t, "sprite", KindSprite.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, "rejected", StatusRejected.String())
}

func TestLoadMapShadowingSprites(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "maps", "sprites.tmj"), townTMJ)
	writePNG(t, filepath.Join(dir, "hero.png"), solid(1, 1, color.NRGBA{0xff, 0, 0, 0xff}))

	l := New(DefaultConfig(dir), nil, testLogger())
	r, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.MapsLoaded)

	s := l.State()
	assert.Contains(t, s.Maps, "sprites")

	v, err := s.Modules.Require("sprites")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"hero": 0}, v)
}
