/*
Bilhar opens a billiards table in an orbiting 3D view with a top-down
minimap. Models and textures under the assets directory are reloaded when
they change on disk.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/bilhar/engine"
	"github.com/spaghettifunk/bilhar/engine/core"
	"github.com/spaghettifunk/bilhar/testbed"
)

func main() {
	config, err := engine.LoadApplicationConfigFromEnv()
	if err != nil {
		panic(err)
	}

	game := testbed.NewBilharGame(config)

	e, err := engine.New(game.Game)
	if err != nil {
		panic(err)
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		panic(err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the render thread owns the window, so the handler only asks the loop to stop
	go func() {
		sig := <-sigCh
		core.LogInfo("received %s, quitting", sig)
		e.RequestQuit()
	}()

	// run engine
	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err)
	}
	if runErr != nil {
		core.LogError("%s", runErr)
		os.Exit(1)
	}
}
