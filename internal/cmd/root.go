package cmd

import "github.com/alecthomas/kong"

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto" env:"LEARNCLI_COLOR"`
	JSON    bool   `help:"JSON output to stdout; disables colors." env:"LEARNCLI_JSON"`
	Plain   bool   `help:"TSV output to stdout; disables colors." env:"LEARNCLI_PLAIN"`
	Verbose bool   `help:"Enable debug logging." env:"LEARNCLI_VERBOSE"`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration."`
	Search  SearchCmd  `cmd:"" help:"Search Microsoft Learn resources."`
	Suggest SuggestCmd `cmd:"" help:"List search suggestions for a partial query."`
	Browse  BrowseCmd  `cmd:"" help:"Interactive search with live suggestions."`
	Proxies ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
