package main

import (
	"errors"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/audio"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/bus"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/chart"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/condition"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/config"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/judge"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/parser"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/registry"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/server"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/sim"
)

func main() {
	if err := run(); nil != err {
		log.Fatal(err)
	}
}

func run() error {
	switch config.Parse() {
	case config.Play.FullCommand():
		return play()
	case config.Convert.FullCommand():
		return convert()
	case config.Simulate.FullCommand():
		return simulate()
	}
	return errors.New("unknown command")
}

func play() error {
	var psr parser.Parser = &parser.DefaultParser{}
	loaded, err := psr.Parse(*config.PlayChart)
	if nil != err {
		return err
	}
	log.Info("chart loaded", "file", *config.PlayChart, "events", len(loaded.Events), "duration", loaded.TotalDuration())

	notes := registry.NewNotes()
	bindings := registry.NewBindings(config.Thresholds())
	eval := &condition.Evaluator{
		BandReference: config.Bands(),
		CenterX:       *config.CenterX,
		CenterY:       *config.CenterY,
		EdgeThreshold: *config.EdgeThreshold,
	}
	tracker := condition.NewDirectionTracker(*config.CenterX)

	hub := notify.NewHub()
	engine := judge.NewEngine(notes, bindings, eval, hub, judge.Config{
		HitWindow:         *config.HitWindow,
		HoldCheckInterval: *config.HoldCheckInterval,
		HoldGracePeriod:   *config.HoldGracePeriod,
	})
	watchdog := judge.NewWatchdog(notes, hub, *config.HitWindow)
	scheduler := chart.New(notes, bindings, hub, watchdog, chart.Config{
		LeadTime:      *config.LeadTime,
		Tick:          *config.Tick,
		HoldThreshold: *config.HoldThreshold,
		JoinTimeout:   *config.JoinTimeout,
		SettleDelay:   *config.SettleDelay,
		Countdown:     !*config.NoCountdown,
	})

	var sounds *audio.Manager
	if !*config.NoAudio {
		sounds = audio.NewManager(config.SoundRules())
		if err := sounds.Init(); nil != err {
			return err
		}
		defer sounds.StopAll()
	}

	client, err := bus.Connect(bus.Options{
		Broker:   *config.Broker,
		Port:     *config.Port,
		Topic:    *config.Topic,
		Username: *config.Username,
		Password: *config.Password,
	})
	if nil != err {
		return err
	}
	defer client.Close()

	messages := server.NewRing(*config.MaxMessages)
	handler := func(u game.Utensil, snap game.Snapshot) {
		if u == game.MixingBowl {
			snap = tracker.Annotate(snap)
		}
		if binding, ok := bindings.Lookup(u); ok && sounds != nil {
			sounds.Update(u, eval.Satisfied(u, snap, binding.Target, binding.Threshold))
		}
		engine.HandleReading(u, snap)
	}
	if err := client.Subscribe(handler, messages.Record); nil != err {
		return err
	}

	srv := server.New(scheduler, loaded, hub, messages)
	go func() {
		if err := srv.ListenAndServe(*config.Listen); nil != err {
			log.Error("http server stopped", "err", err)
		}
	}()

	if err := scheduler.Start(loaded); nil != err {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	scheduler.Stop()
	return nil
}

func convert() error {
	mapping, err := parser.LoadMapping(*config.ConvertMapping)
	if nil != err {
		return err
	}

	var converted *game.Chart
	if path.Ext(*config.ConvertSource) == ".mid" {
		converted, err = parser.ConvertSMF(*config.ConvertSource, mapping)
	} else {
		converted, err = parser.ConvertMIDIJSON(*config.ConvertSource, mapping)
	}
	if nil != err {
		return err
	}

	if err := parser.Save(converted, *config.ConvertOut); nil != err {
		return err
	}
	log.Info("chart written", "out", *config.ConvertOut, "events", len(converted.Events), "bpm", converted.BPM)
	return nil
}

func simulate() error {
	client, err := bus.Connect(bus.Options{
		Broker:   *config.Broker,
		Port:     *config.Port,
		Topic:    *config.Topic,
		Username: *config.Username,
		Password: *config.Password,
	})
	if nil != err {
		return err
	}
	defer client.Close()

	return sim.Run(client, game.Utensil(*config.SimulateUtensil), sim.Config{
		Interval: *config.SimInterval,
		CenterX:  *config.CenterX,
		CenterY:  *config.CenterY,
		Edge:     *config.EdgeThreshold,
		Bands:    config.Bands(),
	})
}
