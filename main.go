package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"LocalSketch/internal/config"
	sketchnet "LocalSketch/internal/net"
	"LocalSketch/internal/state"
	"LocalSketch/internal/ui"
)

func main() {
	configPath := flag.String("config", "localsketch.toml", "settings file")
	serve := flag.Bool("serve", false, "run the WebSocket session server instead of the window")
	discover := flag.Duration("discover", 0, "browse the LAN for session servers for this long and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	state.SetLogger(logger)

	switch {
	case *discover > 0:
		err = runDiscover(*discover)
	case *serve:
		err = runServer(cfg)
	default:
		err = runDesktop(cfg)
	}
	if err != nil {
		logger.Error("[MAIN] exiting", "err", err)
		os.Exit(1)
	}
}

func runDesktop(cfg config.Config) error {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	engine, err := state.NewEngine(opts)
	if err != nil {
		return err
	}
	defer engine.Close()
	ui.RunApp(engine, "")
	return nil
}

func runServer(cfg config.Config) error {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	ln, err := sketchnet.Listen(cfg.Server.Addr)
	if err != nil {
		return err
	}
	port := sketchnet.ListenerPort(ln)

	if cfg.Server.Advertise {
		zone, err := sketchnet.Advertise(port, cfg.Server.Name)
		if err != nil {
			state.Logger().Warn("[MDNS] advertise failed", "err", err)
		} else {
			defer zone.Shutdown()
		}
	}

	fmt.Println("Share link:", sketchnet.ShareLink(sketchnet.OutgoingIP(), port))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return sketchnet.NewServer(opts).Serve(ctx, ln)
}

func runDiscover(timeout time.Duration) error {
	found := 0
	err := sketchnet.Discover(timeout, func(p sketchnet.Peer) {
		found++
		fmt.Printf("%s\t%s\n", p.Name, p.Link())
	})
	if err != nil {
		return err
	}
	if found == 0 {
		fmt.Println("No LocalSketch servers found.")
	}
	return nil
}
