package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"golang.org/x/term"

	"github.com/lixenwraith/robotrak/artwork"
	"github.com/lixenwraith/robotrak/audio"
	"github.com/lixenwraith/robotrak/config"
	"github.com/lixenwraith/robotrak/engine"
	"github.com/lixenwraith/robotrak/gaze"
	"github.com/lixenwraith/robotrak/logging"
	"github.com/lixenwraith/robotrak/pointer"
	"github.com/lixenwraith/robotrak/render"
	"github.com/lixenwraith/robotrak/service"
	"github.com/lixenwraith/robotrak/terminal"
	"github.com/lixenwraith/robotrak/vmath"
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the mascot crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mROBOTRAK CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flags := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "robotrak: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *config.Flags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal")
	}

	cfg, err := flags.Load()
	if err != nil {
		return err
	}

	logFile, err := logging.Setup(cfg.Log.Debug, cfg.Log.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "robotrak: logging disabled: %v\n", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	art, err := artwork.Open(cfg.Artwork.Path)
	if err != nil {
		return err
	}

	hub := pointer.NewHub()
	termSvc := terminal.NewService(hub, nil)
	audioSvc := audio.NewService()

	surface := gaze.SurfaceFunc(func() (vmath.Affine, bool) {
		return termSvc.Viewport(art.ViewBox, cfg.Render.CellAspect).ScreenCTM()
	})
	tracking := engine.NewTrackingService(hub, art.Face(), surface, termSvc.Name(), audioSvc.Name())
	tracking.OnUpdate(func(o gaze.FaceOffsets) { audioSvc.Observe(o) })

	services := service.NewHub()
	for _, reg := range []struct {
		svc  service.Service
		args []any
	}{
		{termSvc, []any{terminal.ParseColorMode(cfg.Render.ColorMode)}},
		{audioSvc, []any{cfg.Audio}},
		{tracking, []any{cfg.Gaze.Smoothing}},
	} {
		if err := services.Register(reg.svc, reg.args...); err != nil {
			return err
		}
	}

	if err := services.InitAll(); err != nil {
		return err
	}
	if err := services.StartAll(); err != nil {
		return err
	}
	defer services.StopAll()

	log.Printf("robotrak: services %v, %d fps", services.Order(), cfg.Render.FPS)
	loop(termSvc, tracking, render.NewScene(art), cfg)
	return nil
}

// loop redraws on input and whenever the eased offsets move
func loop(termSvc *terminal.Service, tracking *engine.TrackingService, scene *render.Scene, cfg config.Config) {
	canvas := render.NewCellCanvas(termSvc.Size())
	frameTicker := time.NewTicker(cfg.FrameInterval())
	defer frameTicker.Stop()

	dirty := true
	for {
		select {
		case ev := <-termSvc.Events():
			switch termSvc.Handle(ev) {
			case terminal.ActionQuit:
				return
			case terminal.ActionResize:
				canvas.Resize(termSvc.Size())
				dirty = true
			case terminal.ActionRedraw:
				dirty = true
			}

		case <-frameTicker.C:
			out, changed := tracking.Frame()
			if !changed && !dirty {
				continue
			}
			scene.Offsets = out
			canvas.DrawScene(scene, termSvc.Viewport(scene.Art.ViewBox, cfg.Render.CellAspect))
			termSvc.Flush(canvas)
			dirty = false
		}
	}
}
