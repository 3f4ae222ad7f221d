/*
Package assets is the asset ingestion pipeline of the lupi game runtime.

At start-up it scans the game directory for Tiled map documents and sprite
sheet images. Maps are decoded and registered as script modules named after
their file. Sprite sheets contribute their colors to the shared palette, which
is merged with any existing palette file and written back, and are then
indexed against it and registered by name.

Every asset is processed on its own; one that fails is logged and skipped and
the pipeline carries on with the next.
*/
package assets

import (
	"context"
	"log"

	"github.com/lupi-engine/assets/palette"
	"github.com/lupi-engine/assets/script"
	"github.com/lupi-engine/assets/sprite"
	"github.com/lupi-engine/assets/tilemap"
)

// State is everything produced by loading. It is populated once and should
// be treated as read-only afterwards.
type State struct {
	Palette *palette.Palette
	Sheets  sprite.Table
	Sprites sprite.Registry
	Maps    map[string]*tilemap.Map
	Modules *script.Modules
}

// Report counts the outcome of a load.
type Report struct {
	MapsFound     int
	MapsLoaded    int
	MapsRejected  int
	MapsSkipped   int
	LayersDropped int

	SpritesFound   int
	SpritesIndexed int
	SpritesSkipped int
	PixelsDropped  int

	PaletteLoaded bool
	PaletteSaved  bool
	Colors        int
	ColorsRefused int
}

// Loader runs the asset pipeline for one game directory.
type Loader struct {
	cfg    Config
	db     *AssetDB
	logger *log.Logger

	state  *State
	report Report
}

// New returns a Loader for cfg. db may be nil, in which case no manifest is
// recorded.
func New(cfg Config, db *AssetDB, logger *log.Logger) *Loader {
	return &Loader{
		cfg:    cfg,
		db:     db,
		logger: logger,
		state: &State{
			Palette: palette.New(),
			Maps:    make(map[string]*tilemap.Map),
			Modules: script.New(),
		},
	}
}

// State returns the loaded state.
func (l *Loader) State() *State {
	return l.state
}

// Report returns the counts gathered so far.
func (l *Loader) Report() Report {
	return l.report
}

// Load runs the sprite and map pipelines. Failures of single assets are
// logged and counted; an error is only returned if a pipeline couldn't run
// at all.
func (l *Loader) Load(ctx context.Context) (*Report, error) {
	if l.db != nil {
		if err := l.db.Reset(); err != nil {
			return nil, err
		}
	}

	if err := l.LoadSprites(ctx); err != nil {
		return nil, err
	}

	if err := l.LoadMaps(ctx); err != nil {
		return nil, err
	}

	r := l.report
	return &r, nil
}
