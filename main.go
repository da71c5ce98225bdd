package main

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/ohsu-comp-bio/yatamana/cmd"
	"github.com/ohsu-comp-bio/yatamana/logger"
	"github.com/ohsu-comp-bio/yatamana/util"
)

func main() {
	ctx := util.SignalContext(context.Background(), time.Millisecond, syscall.SIGINT, syscall.SIGTERM)
	if err := cmd.RootCmd.ExecuteContext(ctx); err != nil {
		logger.PrintSimpleError(err)
		os.Exit(1)
	}
}
