package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/ardenspace/space3-your-journey/internal/client/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cli.NewRootCommand(nil), os.Stderr)
	stop()
	os.Exit(code)
}
