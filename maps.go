package assets

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/lupi-engine/assets/tilemap"
)

func (l *Loader) record(kind Kind, f ScannedFile, sum string, status Status, detail string) int64 {
	if l.db == nil {
		return 0
	}
	id, err := l.db.RecordAsset(kind, f.BaseName, f.Path, sum, status, detail)
	if err != nil {
		l.logger.Printf("Failed to record %s \"%s\": %s\n", kind, f.BaseName, err)
	}
	return id
}

func (l *Loader) loadMap(f ScannedFile) {
	b, err := ioutil.ReadFile(f.Path)
	if err != nil {
		l.logger.Printf("[MAP] Failed to open: %s\n", f.Path)
		l.report.MapsSkipped++
		l.record(KindMap, f, "", StatusSkipped, err.Error())
		return
	}
	h := sha1.Sum(b)
	sum := fmt.Sprintf("%X", h[:])

	m, err := tilemap.Decode(string(b), f.BaseName)
	if err != nil {
		switch {
		case errors.Is(err, tilemap.ErrLayerMissing):
			l.logger.Printf("[MAP] Warning: No tiles layer found in %s\n", f.BaseName)
		case errors.Is(err, tilemap.ErrInvalidDimensions):
			l.logger.Printf("[MAP] Warning: Invalid dimensions in %s\n", f.BaseName)
		default:
			l.logger.Printf("[MAP] Warning: Invalid tiles data in %s (%s)\n", f.BaseName, err)
		}
		l.report.MapsRejected++
		l.record(KindMap, f, sum, StatusRejected, err.Error())
		return
	}

	for _, name := range m.Dropped {
		l.logger.Printf("[MAP] Warning: %s data size mismatch in %s\n", name, f.BaseName)
	}
	l.report.LayersDropped += len(m.Dropped)

	l.logger.Printf("[MAP] Parsed map %s: %dx%d\n", m.Name, m.Width, m.Height)

	l.state.Maps[m.Name] = m
	if m.Name == l.cfg.SpritesModule {
		// The sprite table owns this module name
		l.logger.Printf("[MAP] Warning: map '%s' not registered, name is taken by the sprite table\n", m.Name)
	} else {
		l.state.Modules.Preload(m.Name, func() (interface{}, error) {
			return tilemap.Pack(m).Table(), nil
		})
		l.logger.Printf("[MAP] Registered map '%s'\n", m.Name)
	}

	l.report.MapsLoaded++
	detail := ""
	if len(m.Dropped) > 0 {
		detail = fmt.Sprintf("dropped layers: %v", m.Dropped)
	}
	l.record(KindMap, f, sum, StatusLoaded, detail)
}

// LoadMaps decodes every map document under the maps directory and registers
// each one as a module named after its file.
func (l *Loader) LoadMaps(ctx context.Context) error {
	l.logger.Printf("[MAP] Initializing map system for: %s\n", l.cfg.GameDir)

	files, err := Scan(ctx, l.cfg.MapsDir, mapExt)
	if err != nil {
		return err
	}
	l.logger.Printf("[MAP] Found %d TMJ files\n", len(files))
	l.report.MapsFound += len(files)

	for _, f := range files {
		l.loadMap(f)
	}

	l.logger.Printf("[MAP] Map system initialized\n")
	return nil
}
