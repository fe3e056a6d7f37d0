package main

import (
	"os"

	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("tracer")

func newApp() *cli.App {
	// -v is taken by the verbosity flag
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	app := cli.NewApp()
	app.Name = "sphere-tracer"
	app.Usage = "render spheres with a recursive path tracer"
	app.Version = "0.1.0"
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
			Usage: "render a scene to a PNG image",
			Description: `
Render a built-in scene (see the scenes command) or a JSON scene description.
Each pixel averages --spp camera rays; each ray bounces at most --depth times.
Flags left unset keep the values chosen by the scene.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "scene id: a built-in name or file:<name> from the scenes directory",
				},
				cli.StringFlag{
					Name:  "config, c",
					Usage: "path to a JSON scene description; takes precedence over --scene",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width in pixels",
				},
				cli.Float64Flag{
					Name:  "aspect",
					Usage: "image aspect ratio (width / height)",
				},
				cli.IntFlag{
					Name:  "spp",
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "depth",
					Usage: "maximum number of bounces per camera ray",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "seed for the random sampler",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename (default output/<scene>/render_<timestamp>.png)",
				},
			},
			Action: RenderScene,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes and scene files",
			Action: ListScenes,
		},
		{
			Name:  "gradient",
			Usage: "write the red/green gradient test pattern",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 256,
					Usage: "image width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 256,
					Usage: "image height",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "image.png",
					Usage: "image filename",
				},
			},
			Action: RenderGradient,
		},
		{
			Name:  "serve",
			Usage: "serve the render API over HTTP",
			Description: `
Start an HTTP server exposing /api/scenes, /api/scene-config and /api/render.
Render requests stream scanline progress and the finished PNG as server-sent events.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to serve on",
				},
			},
			Action: Serve,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
