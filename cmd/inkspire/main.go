package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkspire/inkspire-client/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.Options{Observability: true}, os.Args[1:])
	stop()
	os.Exit(code)
}
