package cmd

import "fmt"

type VersionCmd struct{}

func (v *VersionCmd) Run(ctx *Context) error {
	if ctx.JSONOutput {
		_, err := fmt.Fprintf(ctx.Out, "{\"version\": %q}\n", ctx.Version)
		return err
	}
	_, err := fmt.Fprintln(ctx.Out, ctx.Version)
	return err
}
