package cmd

import (
	"github.com/j-cube/hdospray/renderer"
	"github.com/urfave/cli"
)

// Flags shared by commands that sync scenes.
var RenderFlags = []cli.Flag{
	cli.BoolTFlag{
		Name:   "path-tracing",
		Usage:  "use the path tracer and principled materials; set to false for the interactive renderer with obj materials",
		EnvVar: "HDOSPRAY_USE_PATH_TRACING",
	},
	cli.UintFlag{
		Name:   "spp",
		Value:  1,
		Usage:  "samples per pixel rendered per frame",
		EnvVar: "HDOSPRAY_SAMPLES_PER_FRAME",
	},
	cli.IntFlag{
		Name:   "workers",
		Value:  renderer.DefaultOptions().Workers,
		Usage:  "number of prims synced in parallel",
		EnvVar: "HDOSPRAY_WORKERS",
	},
	cli.BoolFlag{
		Name:  "linear-textures",
		Usage: "upload 8-bit textures with linear instead of sRGB formats",
	},
	cli.BoolFlag{
		Name:  "nearest-filter",
		Usage: "sample textures with nearest filtering",
	},
}

// Build renderer options from the command flags.
func renderOptions(ctx *cli.Context) renderer.Options {
	opts := renderer.DefaultOptions()
	opts.UsePathTracing = ctx.BoolT("path-tracing")
	opts.SamplesPerFrame = uint32(ctx.Uint("spp"))
	opts.Workers = ctx.Int("workers")
	opts.PreferLinearTextures = ctx.Bool("linear-textures")
	opts.NearestTextureFilter = ctx.Bool("nearest-filter")

	if opts.Workers < 1 {
		logger.Warningf("invalid worker count %d; using 1", opts.Workers)
		opts.Workers = 1
	}
	return opts
}
