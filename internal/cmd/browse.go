package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jimezsa/learncli/internal/config"
	"github.com/jimezsa/learncli/internal/learn"
	"github.com/jimezsa/learncli/internal/search"
	"github.com/jimezsa/learncli/internal/tui"
	"github.com/rs/zerolog"
)

type BrowseCmd struct {
	Query string `arg:"" optional:"" help:"Initial query; results load immediately."`
	RemoteOptions
	LogFile string `name:"log-file" help:"Log file while the screen is active (default: learncli.log in the config dir)."`
}

func (b *BrowseCmd) Run(ctx *Context) error {
	searcher, err := newSearcher(ctx, b.RemoteOptions)
	if err != nil {
		return err
	}

	logFile, err := b.openLog()
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := NewLogger(logFile, ctx.Verbose).With().Str("cmd", "browse").Logger()
	return b.run(ctx, searcher, logger)
}

func (b *BrowseCmd) run(ctx *Context, searcher learn.Searcher, logger zerolog.Logger) error {
	controller := search.NewController(searcher,
		search.WithLogger(logger),
		search.WithDebounce(ctx.Config.Debounce()),
		search.WithInitialQuery(strings.TrimSpace(b.Query)),
	)
	defer controller.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("query", b.Query).Msg("browse started")
	err := tui.Run(runCtx, controller, tui.Options{
		Featured:      ctx.Config.Featured,
		ContributorID: ctx.Config.ContributorID,
		Open:          openURL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("browse exited")
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

// openLog opens the browse log for appending. Writing to stderr would
// corrupt the alternate screen.
func (b *BrowseCmd) openLog() (*os.File, error) {
	path := strings.TrimSpace(b.LogFile)
	if path == "" {
		var err error
		path, err = config.LogPath()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
