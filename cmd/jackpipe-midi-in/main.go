// File: cmd/jackpipe-midi-in/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// jackpipe-midi-in exposes a MIDI input port and prints every captured
// message to standard output as one hex line. Stdout is switched to
// non-blocking mode so a stalled reader never stalls the callback; a
// line that cannot be finished is cancelled with an 'X' marker.

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
	"github.com/momentics/jackpipe/protocol"
	"github.com/momentics/jackpipe/reactor"
)

const (
	appName           = "jackpipe-midi-in"
	defaultClientName = "jm2s"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] [client-name]\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(out, "Provides a MIDI input port whose messages are printed to standard")
	fmt.Fprintln(out, "output, one hex-encoded message per line.")
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

	// Best effort; a pipe or tty that stays blocking only costs lines.
	unix.SetNonblock(unix.Stdout, true)

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

	writer := protocol.NewLineWriter(unix.Stdout)
	b, err := bridge.NewMidiIn(client, log, writer)
	if err != nil {
		log.Error().Err(err).Msg("bridge setup failed")
		return fail(err)
	}
	if err := client.Activate(); err != nil {
		log.Error().Err(err).Msg("activate failed")
		return fail(err)
	}

	loop := reactor.New(wake)
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
