package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ScannedFile is an asset found by Scan.
type ScannedFile struct {
	Path     string
	BaseName string
}

func findFiles(ctx context.Context, root, ext string) (<-chan ScannedFile, <-chan error) {
	out := make(chan ScannedFile)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(root, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				if file == root {
					if os.IsNotExist(err) {
						return filepath.SkipDir
					}
					return err
				}
				// Unreadable entries below the root are passed over
				return nil
			}

			// Ignore any hidden files or directories, but not the root itself which may well be "."
			if file != root && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			name := info.Name()
			if len(name) <= len(ext) || !strings.HasSuffix(name, ext) {
				return nil
			}

			select {
			case out <- ScannedFile{Path: file, BaseName: strings.TrimSuffix(name, ext)}:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc
}

func waitForPipeline(errc <-chan error) error {
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

// Scan recursively lists the regular files under root whose name ends in
// ext, in lexical order. Hidden files and directories are skipped. A missing
// root yields no files.
func Scan(ctx context.Context, root, ext string) ([]ScannedFile, error) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	files, errc := findFiles(ctx, root, ext)

	var list []ScannedFile
	for f := range files {
		list = append(list, f)
	}

	if err := waitForPipeline(errc); err != nil {
		return nil, err
	}

	return list, nil
}
