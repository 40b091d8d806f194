package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ribbons/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Run(ctx, os.Args)
	stop()
	os.Exit(code)
}
