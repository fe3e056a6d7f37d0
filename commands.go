package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-tracer/pkg/log"
	"github.com/df07/go-sphere-tracer/pkg/renderer"
	"github.com/df07/go-sphere-tracer/pkg/scene"
	"github.com/df07/go-sphere-tracer/web/server"
	"github.com/urfave/cli"
)

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

// RenderScene renders the selected scene and writes a PNG.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, sceneName, err := loadScene(ctx.String("config"), ctx.String("scene"))
	if err != nil {
		return err
	}

	overrides := scene.Overrides{
		Width:           ctx.Int("width"),
		AspectRatio:     ctx.Float64("aspect"),
		SamplesPerPixel: ctx.Int("spp"),
		MaxDepth:        ctx.Int("depth"),
	}
	if ctx.IsSet("seed") {
		seed := ctx.Int64("seed")
		overrides.Seed = &seed
	}
	if err := sc.Apply(overrides); err != nil {
		return err
	}

	raytracer, err := sc.NewRaytracer()
	if err != nil {
		return err
	}

	cfg := sc.SamplingConfig
	logger.Noticef("rendering %s at %dx%d, %d spp, depth %d", sceneName, cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.MaxDepth)

	img, stats, err := raytracer.RenderPass(context.Background())
	if err != nil {
		return err
	}
	stats.WriteTable(ctx.App.Writer)

	filename := ctx.String("out")
	if filename == "" {
		filename = outputFilename(sceneName, time.Now())
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	if err := renderer.SavePNG(img, filename); err != nil {
		return err
	}

	logger.Noticef("render saved as %s", filename)
	return nil
}

// ListScenes prints the built-in scenes and any scene files.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	scenes, err := scene.ListAllScenes(scene.FindScenesDir())
	if err != nil {
		return err
	}

	scene.WriteSceneTable(ctx.App.Writer, scenes)
	return nil
}

// RenderGradient writes the gradient test pattern.
func RenderGradient(ctx *cli.Context) error {
	setupLogging(ctx)

	width, height := ctx.Int("width"), ctx.Int("height")
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image size %dx%d must be positive", renderer.ErrInvalidSampling, width, height)
	}

	img := renderer.RenderGradient(width, height)

	filename := ctx.String("out")
	logger.Info("writing PNG...")
	if err := renderer.SavePNG(img, filename); err != nil {
		return err
	}

	logger.Noticef("gradient saved as %s", filename)
	return nil
}

// Serve starts the web server and blocks until it fails.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	webServer := server.NewServer(ctx.Int("port"), scene.FindScenesDir())
	logger.Noticef("visit http://localhost:%d/api/scenes to list scenes", ctx.Int("port"))
	return webServer.Start()
}

// loadScene resolves a scene from a config file path or a scene id and returns
// it with a name suitable for output paths
func loadScene(configPath, sceneID string) (*scene.Scene, string, error) {
	if configPath != "" {
		sc, err := scene.LoadFile(configPath)
		if err != nil {
			return nil, "", err
		}
		return sc, sceneBaseName(configPath), nil
	}

	if sceneID == "" {
		return nil, "", errors.New("no scene selected")
	}

	sc, err := scene.CreateScene(sceneID, scene.FindScenesDir())
	if err != nil {
		return nil, "", err
	}
	return sc, sceneBaseName(sceneID), nil
}

// sceneBaseName strips file prefixes, directories and extensions from a scene reference
func sceneBaseName(ref string) string {
	ref = strings.TrimPrefix(ref, "file:")
	base := filepath.Base(ref)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// outputFilename returns output/<scene>/render_<timestamp>.png
func outputFilename(sceneName string, now time.Time) string {
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", sceneName, fmt.Sprintf("render_%s.png", timestamp))
}
