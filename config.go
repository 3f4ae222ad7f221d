package assets

import "path/filepath"

const (
	mapExt   = ".tmj"
	imageExt = ".png"

	// DefaultSpritesModule is the module name the sprite table is
	// registered under.
	DefaultSpritesModule = "sprites"

	// SpriteSheetsGlobal is the global set to the sprite table when its
	// module is required.
	SpriteSheetsGlobal = "SpriteSheets"

	paletteFilename = "palette.lua"
	mapsDirname     = "maps"
)

// Config holds the locations the Loader reads and writes.
type Config struct {
	GameDir       string
	MapsDir       string
	SpritesDir    string
	PalettePath   string
	SpritesModule string
}

// DefaultConfig returns the standard layout for the game in gameDir: maps
// under maps/, sprites anywhere and the palette in palette.lua.
func DefaultConfig(gameDir string) Config {
	return Config{
		GameDir:       gameDir,
		MapsDir:       filepath.Join(gameDir, mapsDirname),
		SpritesDir:    gameDir,
		PalettePath:   filepath.Join(gameDir, paletteFilename),
		SpritesModule: DefaultSpritesModule,
	}
}
