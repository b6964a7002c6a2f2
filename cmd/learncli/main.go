package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/jimezsa/learncli/internal/cmd"
	"github.com/jimezsa/learncli/internal/config"
	"github.com/jimezsa/learncli/internal/ui"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli := cmd.NewCLI()
	versionString := buildVersion()

	parser, err := kong.New(cli,
		kong.Name("learncli"),
		kong.Description("Search Microsoft Learn from the terminal."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": versionString},
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(os.Getenv("LEARNCLI_COLOR")), false).Errorf("%v", err)
		return 1
	}

	userInterface := ui.New(os.Stdout, os.Stderr, ui.NormalizeColorMode(cli.Color), cli.JSON || cli.Plain)
	runCtx, err := newContext(cli, userInterface, versionString)
	if err != nil {
		userInterface.Errorf("%v", err)
		return 1
	}

	runCtx.Logger.Debug().Str("config_dir", runCtx.ConfigDir).Str("command", kctx.Command()).Msg("starting")
	if err := kctx.Run(runCtx); err != nil {
		userInterface.Errorf("%v", err)
		return 1
	}
	return 0
}

func newContext(cli *cmd.CLI, userInterface *ui.UI, versionString string) (*cmd.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}

	return &cmd.Context{
		Out:        os.Stdout,
		Err:        os.Stderr,
		UI:         userInterface,
		Config:     cfg,
		ConfigDir:  configDir,
		Logger:     cmd.NewLogger(os.Stderr, cli.Verbose),
		Verbose:    cli.Verbose,
		JSONOutput: cli.JSON,
		PlainText:  cli.Plain,
		Version:    versionString,
		ColorMode:  ui.NormalizeColorMode(cli.Color),
	}, nil
}

func buildVersion() string {
	parts := slices.DeleteFunc([]string{commit, date}, func(s string) bool { return s == "" })
	if len(parts) == 0 {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, strings.Join(parts, ", "))
}
