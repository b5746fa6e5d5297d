// Copyright 2026 The ChromiumOS Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package main implements the metarun executable, used to list, plan and run
// units described in suite files with metaplugins.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/matthewd/cfme-tests/internal/logging"
	"github.com/matthewd/cfme-tests/internal/plugin"
	"github.com/matthewd/cfme-tests/metaplugins"
)

const (
	signalChannelSize = 3 // capacity of channel used to intercept signals
)

// Version is the version info of this command. It is filled in at build time.
var Version = "<unknown>"

// installSignalHandler starts a goroutine that restores the terminal and
// exits when the process receives an interrupt, since deferred functions do
// not run in that case.
func installSignalHandler(lg logging.Logger) {
	var st *term.State
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		var err error
		if st, err = term.GetState(fd); err != nil {
			lg.Log(logging.LevelWarning, time.Now(), fmt.Sprint("Failed to get terminal state: ", err))
		}
	}

	sc := make(chan os.Signal, signalChannelSize)
	go func() {
		for sig := range sc {
			if st != nil {
				term.Restore(fd, st)
			}
			fmt.Fprintf(os.Stdout, "\nCaught %v signal; exiting\n", sig)
			os.Exit(1)
		}
	}()
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
}

// doMain implements the main body of the program. It's a separate function so
// that its deferred functions will run before os.Exit makes the program exit
// immediately.
func doMain() int {
	reg := plugin.Default()
	metaplugins.Register(reg)

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(newListCmd(os.Stdout, reg), "")
	subcommands.Register(newPlanCmd(os.Stdout, reg), "")
	subcommands.Register(newRunCmd(reg), "")

	version := flag.Bool("version", false, "print version and exit")
	verbose := flag.Bool("verbose", false, "use verbose logging")
	logTime := flag.Bool("logtime", true, "include date/time headers in logs")
	flag.Parse()

	if *version {
		fmt.Printf("metarun version %s\n", Version)
		return 0
	}

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	lg := logging.NewSinkLogger(level, *logTime, logging.NewWriterSink(os.Stdout))
	ctx := logging.AttachLogger(context.Background(), lg)

	installSignalHandler(lg)

	return int(subcommands.Execute(ctx))
}

func main() {
	os.Exit(doMain())
}
