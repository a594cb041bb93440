// Command capgen converts season-statistics XML feeds into CAP files and
// dumps existing CAP files as text.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
	"github.com/FocuswithJustin/capgen/internal/batch"
	"github.com/FocuswithJustin/capgen/internal/capfile"
	"github.com/FocuswithJustin/capgen/internal/config"
	"github.com/FocuswithJustin/capgen/internal/logging"
	"github.com/FocuswithJustin/capgen/internal/season"
)

const version = "0.1.0"

// stdout receives decode listings and version output.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for capgen.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn or error"`
	LogFormat string `name:"log-format" help:"Log format: text or json"`

	Convert ConvertCmd `cmd:"" default:"withargs" help:"Convert team XML feeds to CAP files"`
	Decode  DecodeCmd  `cmd:"" help:"Print a labelled dump of CAP files"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ConvertCmd converts every discovered feed.
type ConvertCmd struct {
	Paths           []string `arg:"" optional:"" help:"Feed files or directories (default: current directory)"`
	OutDir          string   `name:"out-dir" short:"o" help:"Directory for .cap output (default: next to each input)"`
	Workers         int      `name:"workers" short:"j" help:"Parallel conversions (default: number of CPUs)"`
	AbbreviateNames bool     `name:"abbreviate-names" help:"Write names as 'T. Bissetta'"`
	IncludeInactive bool     `name:"include-inactive" help:"Keep players with no games played"`
	Config          string   `name:"config" short:"c" help:"YAML config file" type:"path"`
}

// errConversionFailed is returned when at least one input did not convert.
var errConversionFailed = errors.New("one or more files failed to convert")

func (c *ConvertCmd) Run() error {
	cfg, err := config.Resolve(c.Config, config.Overrides{
		OutDir:          c.OutDir,
		Workers:         c.Workers,
		AbbreviateNames: c.AbbreviateNames,
		IncludeInactive: c.IncludeInactive,
		LogLevel:        CLI.LogLevel,
		LogFormat:       CLI.LogFormat,
	})
	if err != nil {
		return err
	}
	cfg.InitLogging()

	inputs := batch.Discover(c.Paths)
	summary := batch.Run(context.Background(), inputs, batch.Options{
		OutDir:  cfg.OutDir,
		Workers: cfg.Workers,
		Season: season.Options{
			IncludeInactive: cfg.IncludeInactive,
			AbbreviateNames: cfg.AbbreviateNames,
		},
	})
	if !summary.OK() {
		return fmt.Errorf("%w: %d of %d", errConversionFailed, summary.Failed(), len(summary.Results))
	}
	return nil
}

// DecodeCmd dumps CAP files.
type DecodeCmd struct {
	Files []string `arg:"" optional:"" help:"CAP files (default: *.cap in the current directory)"`
	Write bool     `name:"write" short:"w" help:"Write <file>.txt next to each input instead of printing"`
}

func (c *DecodeCmd) Run() error {
	if err := initGlobalLogging(); err != nil {
		return err
	}

	files := c.Files
	if len(files) == 0 {
		var err error
		if files, err = findCAPFiles("."); err != nil {
			return err
		}
		if len(files) == 0 {
			logging.Warn("no .cap files found")
			return nil
		}
	}

	failed := 0
	for _, path := range files {
		if err := decodeOne(path, c.Write); err != nil {
			logging.Error("decode_failed", "input", path, "kind", caperrors.KindOf(err).String(), "error", err.Error())
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be decoded", failed, len(files))
	}
	return nil
}

func decodeOne(path string, write bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return caperrors.NewIO("read", path, err)
	}
	f, err := capfile.Decode(data)
	if err != nil {
		return err
	}

	if !write {
		return capfile.Dump(stdout, filepath.Base(path), len(data), f)
	}

	var b strings.Builder
	if err := capfile.Dump(&b, filepath.Base(path), len(data), f); err != nil {
		return err
	}
	out := path + ".txt"
	if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
		return caperrors.NewIO("write", out, err)
	}
	logging.Info("dump_written", "input", path, "output", out)
	return nil
}

func findCAPFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, caperrors.NewIO("read", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), capfile.Extension) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func initGlobalLogging() error {
	level, err := logging.ParseLevel(CLI.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(CLI.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "capgen version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("capgen"),
		kong.Description("Season statistics XML to CAP converter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
