package assets

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"os"

	"github.com/lupi-engine/assets/palette"
	"github.com/lupi-engine/assets/sprite"
)

type decodedImage struct {
	file ScannedFile
	sum  string
	img  *sprite.Image
}

func decodeImage(file string) (*sprite.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	img, err := sprite.Decode(io.TeeReader(f, h))
	if err != nil {
		return nil, "", err
	}

	return img, fmt.Sprintf("%X", h.Sum(nil)), nil
}

// extractColors decodes every image and collects their colors in the order
// they are first seen. Images that can't be decoded are skipped.
func (l *Loader) extractColors(files []ScannedFile) ([]decodedImage, *palette.Palette) {
	colors := palette.New()

	var images []decodedImage
	for _, f := range files {
		img, sum, err := decodeImage(f.Path)
		if err != nil {
			l.logger.Printf("[SPRITE] Failed to load: %s (%s)\n", f.Path, err)
			l.report.SpritesSkipped++
			l.record(KindSprite, f, sum, StatusSkipped, err.Error())
			continue
		}

		for _, c := range img.Pixels {
			colors.Insert(c)
		}
		images = append(images, decodedImage{f, sum, img})
	}

	l.logger.Printf("[SPRITE] Extracted %d unique colors\n", colors.Len()+colors.Overflow())
	return images, colors
}

// buildPalette merges the extracted colors into the existing palette file,
// if there is one, and writes the result back.
func (l *Loader) buildPalette(extracted *palette.Palette) *palette.Palette {
	p, found, err := palette.Load(l.cfg.PalettePath)
	if err != nil {
		l.logger.Printf("[SPRITE] Failed to read palette %s: %s\n", l.cfg.PalettePath, err)
	}

	if found {
		l.logger.Printf("[SPRITE] Loaded existing palette with %d colors\n", p.Len())
		l.report.PaletteLoaded = true
		palette.Merge(p, extracted)
		l.logger.Printf("[SPRITE] Merged palette now has %d colors\n", p.Len())
	} else {
		l.logger.Printf("[SPRITE] No existing palette, creating new one\n")
		p = extracted
	}

	if n := p.Overflow(); n > 0 {
		l.logger.Printf("[SPRITE] Warning: Palette has %d colors, limiting to %d\n", p.Len()+n, palette.MaxColors)
	}

	if err := palette.Save(l.cfg.PalettePath, p); err != nil {
		l.logger.Printf("[SPRITE] Failed to create palette file: %s (%s)\n", l.cfg.PalettePath, err)
	} else {
		l.report.PaletteSaved = true
		l.logger.Printf("[SPRITE] Generated palette with %d colors at %s\n", p.Len(), l.cfg.PalettePath)
	}

	l.report.Colors = p.Len()
	l.report.ColorsRefused = p.Overflow()

	return p
}

func (l *Loader) indexSprite(d decodedImage) {
	s, dropped := sprite.Index(d.img, l.state.Palette)

	slot, err := l.state.Sheets.Add(s)
	if err != nil {
		l.logger.Printf("[SPRITE] Skipping '%s': %s\n", d.file.BaseName, err)
		l.report.SpritesSkipped++
		l.record(KindSprite, d.file, d.sum, StatusSkipped, err.Error())
		return
	}
	l.state.Sprites.Register(d.file.BaseName, slot)

	l.logger.Printf("[SPRITE] Indexed %d pixels for sprite %d\n", s.Len(), slot)
	if dropped > 0 {
		l.logger.Printf("[SPRITE] Warning: %d pixels of '%s' did not fit\n", dropped, d.file.BaseName)
	}
	l.logger.Printf("[SPRITE] Registered sprite '%s' at index %d\n", d.file.BaseName, slot)

	l.report.SpritesIndexed++
	l.report.PixelsDropped += dropped

	detail := ""
	if dropped > 0 {
		detail = fmt.Sprintf("%d pixels dropped", dropped)
	}
	if id := l.record(KindSprite, d.file, d.sum, StatusLoaded, detail); id != 0 {
		if err := l.db.StoreSheet(id, slot, s); err != nil {
			l.logger.Printf("Failed to store sheet \"%s\": %s\n", d.file.BaseName, err)
		}
	}
}

// LoadSprites builds the palette from every image under the sprites
// directory, writes the palette file and indexes each image into the sheet
// table. The name to slot table is registered as the sprites module.
func (l *Loader) LoadSprites(ctx context.Context) error {
	l.logger.Printf("[SPRITE] Initializing sprite system for: %s\n", l.cfg.GameDir)

	files, err := Scan(ctx, l.cfg.SpritesDir, imageExt)
	if err != nil {
		return err
	}
	l.logger.Printf("[SPRITE] Found %d PNG files\n", len(files))
	l.report.SpritesFound += len(files)

	images, extracted := l.extractColors(files)

	l.state.Palette = l.buildPalette(extracted)
	if l.db != nil {
		if err := l.db.StorePalette(l.state.Palette); err != nil {
			return err
		}
	}

	for _, d := range images {
		l.indexSprite(d)
	}

	modules := l.state.Modules
	registry := &l.state.Sprites
	modules.Preload(l.cfg.SpritesModule, func() (interface{}, error) {
		t := registry.Table()
		modules.SetGlobal(SpriteSheetsGlobal, t)
		return t, nil
	})

	l.logger.Printf("[SPRITE] Sprite system initialized with %d sprites\n", l.state.Sheets.Len())
	return nil
}
