// Package main inspects and appends to a tournament event journal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	tournamentcmd "github.com/louisbranch/archon/internal/cmd/tournament"
	"github.com/louisbranch/archon/internal/platform/config"
)

func main() {
	cfg, err := tournamentcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	log.SetPrefix("[TOURNAMENT] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tournamentcmd.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
