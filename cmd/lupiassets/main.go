package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/lupi-engine/assets"
	"github.com/lupi-engine/assets/palette"
	"github.com/lupi-engine/assets/tilemap"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultDB = "lupi.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) (*log.Logger, func()) {
	var writers []io.Writer
	if c.Bool("verbose") {
		writers = append(writers, os.Stderr)
	}

	closer := func() {}
	if file := c.String("log-file"); file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
		}
		writers = append(writers, lj)
		closer = func() { lj.Close() }
	}

	switch len(writers) {
	case 0:
		return log.New(ioutil.Discard, "", 0), closer
	case 1:
		return log.New(writers[0], "", log.LstdFlags), closer
	default:
		return log.New(io.MultiWriter(writers...), "", log.LstdFlags), closer
	}
}

func gameDir(c *cli.Context) string {
	if c.NArg() > 0 {
		return c.Args().First()
	}
	return c.String("game-dir")
}

func printReport(w io.Writer, r *assets.Report) {
	fmt.Fprintf(w, "maps:    %d found, %d loaded, %d rejected, %d skipped, %d layers dropped\n", r.MapsFound, r.MapsLoaded, r.MapsRejected, r.MapsSkipped, r.LayersDropped)
	fmt.Fprintf(w, "sprites: %d found, %d indexed, %d skipped, %d pixels dropped\n", r.SpritesFound, r.SpritesIndexed, r.SpritesSkipped, r.PixelsDropped)
	fmt.Fprintf(w, "palette: %d colors, %d refused\n", r.Colors, r.ColorsRefused)
}

func main() {
	app := cli.NewApp()

	app.Name = "lupiassets"
	app.Usage = "lupi game asset ingestion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"LUPI_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to asset manifest database",
		},
		&cli.StringFlag{
			Name:    "log-file",
			EnvVars: []string{"LUPI_LOG_FILE"},
			Usage:   "also log to a rotated file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	gameDirFlag := &cli.StringFlag{
		Name:    "game-dir",
		EnvVars: []string{"LUPI_GAME_DIR"},
		Usage:   "game directory, if not given as an argument",
	}

	app.Commands = []*cli.Command{
		{
			Name:        "load",
			Usage:       "Load maps and sprites and regenerate the palette",
			Description: "",
			ArgsUsage:   "GAMEDIR",
			Flags:       []cli.Flag{gameDirFlag},
			Action: func(c *cli.Context) error {
				dir := gameDir(c)
				if dir == "" {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger, closer := newLogger(c)
				defer closer()

				db, err := assets.NewAssetDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				r, err := assets.New(assets.DefaultConfig(dir), db, logger).Load(context.Background())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				printReport(os.Stdout, r)

				return nil
			},
		},
		{
			Name:        "inspect",
			Usage:       "Decode a single map and print its packed cells",
			Description: "",
			ArgsUsage:   "MAPFILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.Args().First()
				b, err := ioutil.ReadFile(file)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				name := filepath.Base(file)
				m, err := tilemap.Decode(string(b), name[:len(name)-len(filepath.Ext(name))])
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				g := tilemap.Pack(m)
				fmt.Printf("%s: %dx%d, %d cells\n", m.Name, m.Width, m.Height, g.Count())
				for _, l := range m.Dropped {
					fmt.Printf("dropped layer: %s\n", l)
				}
				for row := 1; row <= g.Height; row++ {
					for col := 1; col <= g.Width; col++ {
						if cell := g.Cell(row, col); cell != nil {
							fmt.Printf("[%d][%d] = %v\n", row, col, []int(cell))
						}
					}
				}

				return nil
			},
		},
		{
			Name:        "preview",
			Usage:       "Render an indexed sprite sheet from the manifest as PNG",
			Description: "",
			ArgsUsage:   "NAME FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "columns",
					Value: 8,
					Usage: "tiles per row",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := assets.NewAssetDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer db.Close()

				name := c.Args().Get(0)
				s, _, err := db.FindSheet(name)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if s == nil {
					return cli.NewExitError(fmt.Sprintf("no sprite named %q", name), 1)
				}

				p, err := db.Palette()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				f, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if err := png.Encode(f, s.Image(p, c.Int("columns"))); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "suggest",
			Usage:       "Write a palette file of the dominant colors of every sprite",
			Description: "",
			ArgsUsage:   "GAMEDIR FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: palette.MaxColors,
					Usage: "number of colors including transparent",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger, closer := newLogger(c)
				defer closer()

				files, err := assets.Scan(context.Background(), c.Args().Get(0), ".png")
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var images []image.Image
				for _, file := range files {
					f, err := os.Open(file.Path)
					if err != nil {
						logger.Printf("Failed to open %s: %s\n", file.Path, err)
						continue
					}
					m, _, err := image.Decode(f)
					f.Close()
					if err != nil {
						logger.Printf("Failed to decode %s: %s\n", file.Path, err)
						continue
					}
					images = append(images, m)
				}

				p := palette.Suggest(images, c.Int("colors"))
				logger.Printf("Suggested %d colors from %d images\n", p.Len(), len(images))

				if err := palette.Save(c.Args().Get(1), p); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
