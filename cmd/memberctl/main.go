package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"memberdesk/internal/commands"
)

// Populated at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := commands.NewApp(&commands.Flags{}, version)
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
