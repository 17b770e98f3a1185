package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/dasdy/padkeys/cmd/padkeys"
	"github.com/dasdy/padkeys/logging"
	"gitlab.com/greyxor/slogor"
)

func main() {
	// Replaced once flags are parsed, --verbose decides the level.
	slog.SetDefault(slog.New(logging.ContextHandler{
		Handler: slogor.NewHandler(os.Stderr,
			slogor.SetLevel(slog.LevelInfo),
			slogor.SetTimeFormat(time.DateTime),
			slogor.ShowSource()),
	}))

	padkeys.Execute()
}
