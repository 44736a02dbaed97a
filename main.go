package main

import (
	"os"

	"github.com/j-cube/hdospray/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "hdospray"
	app.Usage = "sync curve and material scenes into commit-based renderer objects"
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
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "log level (debug, info, notice, warning or error); overrides -v and -vv",
			EnvVar: "HDOSPRAY_LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "sync",
			Usage: "sync a scene through a recording renderer device",
			Description: `
Parse a yaml scene description, create curves, material and instancer prims
for it and sync them into renderer geometry, material and instance objects.

The renderer objects are recorded in memory; the number of committed objects
per kind is reported when verbose logging is enabled.`,
			ArgsUsage: "scene.yaml",
			Flags:     cmd.RenderFlags,
			Action:    cmd.SyncScene,
		},
		{
			Name:      "stats",
			Usage:     "sync a scene and display render state statistics",
			ArgsUsage: "scene.yaml",
			Flags:     cmd.RenderFlags,
			Action:    cmd.SceneStats,
		},
		{
			Name:   "texture",
			Usage:  "inspect textures",
			Action: nil,
			Subcommands: []cli.Command{
				{
					Name:        "info",
					Usage:       "display texture formats",
					Description: `Decode textures and display the renderer format negotiated for each one.`,
					ArgsUsage:   "texture1.png texture2.jpg ...",
					Flags: []cli.Flag{
						cli.BoolFlag{
							Name:  "linear",
							Usage: "prefer linear over sRGB formats for 8-bit textures",
						},
					},
					Action: cmd.TextureInfo,
				},
				{
					Name:        "preview",
					Usage:       "write a webp preview of a texture",
					Description: `Decode a texture, flip it to the renderer orientation and write a downscaled webp preview.`,
					ArgsUsage:   "texture.png",
					Flags: []cli.Flag{
						cli.IntFlag{
							Name:  "size",
							Value: 256,
							Usage: "largest preview dimension",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "preview.webp",
							Usage: "image filename for the preview",
						},
					},
					Action: cmd.TexturePreview,
				},
			},
		},
	}

	app.Run(os.Args)
}
