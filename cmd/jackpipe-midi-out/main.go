// File: cmd/jackpipe-midi-out/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// jackpipe-midi-out exposes a MIDI output port fed from standard input,
// one hex-encoded message per line. An 'X' anywhere on a line discards
// the bytes accumulated before it, so an upstream writer can recover a
// torn stream.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/momentics/jackpipe/bridge"
	"github.com/momentics/jackpipe/control"
	"github.com/momentics/jackpipe/driver"
	"github.com/momentics/jackpipe/reactor"
)

const (
	appName           = "jackpipe-midi-out"
	defaultClientName = "js2m"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [client-name]\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(out, "Provides a MIDI output port fed from standard input, one hex-encoded")
	fmt.Fprintln(out, "message per line.")
	fmt.Fprintln(out)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	version := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "TOML configuration file")
	flag.Parse()
	if *version {
		fmt.Println(control.Version)
		return
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}
	if err := run(*configPath, flag.Arg(0)); err != nil {
		os.Exit(1)
	}
	control.RestorePrompt()
}

func run(configPath, nameArg string) error {
	cfg := control.Default()
	if configPath != "" {
		loaded, err := control.Load(configPath)
		if err != nil {
			log := control.NewLogger(appName, cfg.LogLevel)
			log.Error().Err(err).Msg("configuration rejected")
			return err
		}
		cfg = loaded
	}
	if nameArg != "" {
		cfg.ClientName = nameArg
	}
	if cfg.ClientName == "" {
		cfg.ClientName = defaultClientName
	}
	log := control.NewLogger(appName, cfg.LogLevel)

	wake, err := reactor.NewWakePipe()
	if err != nil {
		log.Error().Err(err).Msg("wake pipe setup failed")
		return err
	}
	stopSignals := reactor.Notify(wake)

	client := driver.NewTimerClient(cfg.ClientName,
		driver.WithSampleRate(cfg.SampleRate),
		driver.WithBufferSize(cfg.BufferSize),
		driver.WithCPUPin(cfg.PinCPU),
		driver.WithLogger(log),
	)
	fail := func(err error) error {
		stopSignals()
		client.Close()
		wake.Close()
		return err
	}

	b, err := bridge.NewMidiOut(client, log, cfg.LineMax)
	if err != nil {
		log.Error().Err(err).Msg("bridge setup failed")
		return fail(err)
	}
	if err := client.Activate(); err != nil {
		log.Error().Err(err).Msg("activate failed")
		return fail(err)
	}
	if err := unix.SetNonblock(unix.Stdin, true); err != nil {
		log.Error().Err(err).Msg("nonblocking stdin failed")
		return fail(err)
	}

	loop := reactor.New(wake,
		reactor.WithInput(unix.Stdin, b.Feed),
		reactor.WithEOFHandler(func() {
			log.Info().Msg("input closed, port stays up")
		}),
	)
	if err := loop.Run(); err != nil {
		log.Error().Err(err).Msg("event loop failed")
		return fail(err)
	}

	stopSignals()
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("client close")
	}
	b.Shutdown()
	if cfg.StatsAtExit {
		stats := control.NewStatsRegistry()
		stats.Register("client", client)
		stats.Register("bridge", b)
		stats.Register("loop", loop)
		if err := stats.DumpJSON(os.Stderr); err != nil {
			log.Warn().Err(err).Msg("stats dump failed")
		}
	}
	wake.Close()
	return nil
}
