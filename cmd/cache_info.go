package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/achilleasa/strokedensity/intersect/cache"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display the metadata of an intersection cache archive.
func CacheInfo(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing cache file argument")
	}

	path := cache.NewArchiveStore(cfg.CacheDir).Path(ctx.Args().First())
	info, err := cache.ReadArchiveInfo(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"File", "Version", "Rays", "Crossings", "Created"})
	table.Append([]string{
		path,
		fmt.Sprintf("%d", info.Version),
		fmt.Sprintf("%d", info.NumRays),
		fmt.Sprintf("%d", info.Crossings),
		info.Created.Format(time.RFC3339),
	})

	table.Render()
	logger.Noticef("cache archive\n%s", buf.String())
	return nil
}
