package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"

	"github.com/ryantking/crules/internal/cli"
	"github.com/ryantking/crules/internal/exitcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(cli.GetVersion()),
		fang.WithErrorHandler(cli.ErrorHandler),
	)
	stop()

	os.Exit(exitcode.Code(err))
}
