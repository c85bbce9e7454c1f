package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/gridtrace/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "gridtrace"
	app.Usage = "render scenes using ray tracing accelerated by a uniform voxel grid"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Parse a scene definition from a wavefront obj file, partition it into a
uniform voxel grid and trace a frame. The frame is written as a png image.

Values from the optional YAML config file are overridden by any flags that
are explicitly set.`,
			ArgsUsage: "scene_file.obj",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "YAML file with render options",
				},
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "voxels",
					Value: 16,
					Usage: "voxels per grid dimension",
				},
				cli.IntFlag{
					Name:  "supersampling, ss",
					Value: 1,
					Usage: "samples per pixel along each axis",
				},
				cli.StringFlag{
					Name:  "ss-type",
					Value: "uniform",
					Usage: "supersampling pattern (uniform, jittered, random, adaptive)",
				},
				cli.Float64Flag{
					Name:  "shadow-eps",
					Usage: "shadow ray origin offset",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 0,
					Usage: "number of tracing goroutines (0 = one per CPU)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "seed for the jittered and random sampling patterns",
				},
				cli.Float64Flag{
					Name:  "yaw",
					Usage: "rotate the camera around its up axis (radians)",
				},
				cli.Float64Flag{
					Name:  "pitch",
					Usage: "rotate the camera around its right axis (radians)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
				cli.StringFlag{
					Name:  "report",
					Usage: "write frame diagnostics as JSON to this file",
				},
				cli.StringFlag{
					Name:  "metrics-file",
					Usage: "write render metrics in the prometheus text format to this file",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:      "scene-info",
			Usage:     "display scene information",
			ArgsUsage: "scene_file.obj",
			Action:    cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
