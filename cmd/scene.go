package cmd

import (
	"errors"

	"github.com/achilleasa/gridtrace/asset/reader"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	if err := setupLogging(ctx, ""); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sc.Stats())
	logger.Noticef("camera: %s", sc.Camera)
	return nil
}
