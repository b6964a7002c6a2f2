package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jimezsa/learncli/internal/config"
)

func TestVersionCmd(t *testing.T) {
	ctx, out, _ := testContext()
	ctx.Version = "1.2.3 (abc)"

	if err := (&VersionCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(out.String()) != "1.2.3 (abc)" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestShowConfigCmd(t *testing.T) {
	ctx, out, _ := testContext()
	ctx.Config.Locale = "de-de"

	if err := (&ShowConfigCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var got config.Config
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	if got.Locale != "de-de" {
		t.Fatalf("Locale = %q, want de-de", got.Locale)
	}
	if len(got.Featured) != len(config.DefaultFeatured) {
		t.Fatalf("Featured = %v", got.Featured)
	}
}

func TestPathConfigCmd(t *testing.T) {
	ctx, out, _ := testContext()
	ctx.ConfigDir = "/tmp/learncli"

	if err := (&PathConfigCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "/tmp/learncli\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestInitConfigCmdReportsCreatedFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEARNCLI_CONFIG_DIR", dir)

	ctx, out, _ := testContext()
	ctx.ConfigDir = dir

	if err := (&InitConfigCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "Created: ") || !strings.Contains(out.String(), config.ConfigFileName) {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	if err := (&InitConfigCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() (2nd) error = %v", err)
	}
	if out.String() != "Config already initialized at "+dir+"\n" {
		t.Fatalf("output = %q", out.String())
	}
}
