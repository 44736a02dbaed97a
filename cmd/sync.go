package cmd

import (
	"errors"
	"time"

	"github.com/j-cube/hdospray/backend"
	"github.com/j-cube/hdospray/delegate"
	"github.com/j-cube/hdospray/scene/reader"
	"github.com/urfave/cli"
)

// Load a scene and sync all of its prims through a recording device.
func syncScene(ctx *cli.Context) (*delegate.Delegate, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("missing scene file argument")
	}

	sceneFile := ctx.Args().First()
	st, err := reader.ReadScene(sceneFile)
	if err != nil {
		return nil, err
	}

	opts := renderOptions(ctx)
	logger.Noticef("syncing scene %s using the %s renderer", sceneFile, opts.RendererType())

	d, err := delegate.New(backend.NewRecorder(), opts, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	d.Populate(st)
	d.Sync(st)

	pass := delegate.NewRenderPass(d.Param())
	if _, err = pass.Execute(); err != nil {
		return nil, err
	}
	logger.Noticef("synced scene in %d ms; world contains %d instances", time.Since(start).Nanoseconds()/1000000, pass.NumInstances())

	return d, nil
}

// Sync a scene and report the committed renderer objects.
func SyncScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	d, err := syncScene(ctx)
	if err != nil {
		return err
	}

	if inspector, ok := d.Param().Device().(backend.Inspector); ok {
		for kind, count := range inspector.LiveCounts() {
			logger.Infof("%s objects: %d", kind, count)
		}
	}
	return nil
}

// Sync a scene and display the render state statistics.
func SceneStats(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	d, err := syncScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene statistics\n%s", d.Param().Stats())
	return nil
}
