// Package batch discovers team feeds and converts them to CAP files in
// parallel. One bad file never stops the others.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
	"github.com/FocuswithJustin/capgen/internal/capfile"
	"github.com/FocuswithJustin/capgen/internal/logging"
	"github.com/FocuswithJustin/capgen/internal/season"
	"github.com/FocuswithJustin/capgen/internal/validation"
)

// Input is one file to convert. Err is set when the path could not be
// resolved during discovery.
type Input struct {
	Path string
	Err  error
}

// Options controls a conversion run.
type Options struct {
	OutDir  string // empty: beside each input
	Workers int
	Season  season.Options
}

// Result is the outcome for one input.
type Result struct {
	Input    string
	Output   string
	TeamID   string
	Players  int
	Digest   string
	Duration time.Duration
	Err      error
}

// Kind classifies a failed result.
func (r Result) Kind() caperrors.Kind {
	return caperrors.KindOf(r.Err)
}

// Summary collects results in input order.
type Summary struct {
	RunID    string
	Results  []Result
	Duration time.Duration
}

// Converted counts successful inputs.
func (s *Summary) Converted() int {
	return len(s.Results) - s.Failed()
}

// Failed counts inputs that produced no output.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// OK reports whether every input converted.
func (s *Summary) OK() bool {
	return s.Failed() == 0
}

// SharedOutputs maps each output path written by more than one input to
// those inputs, in input order. The file on disk holds whichever finished
// last.
func (s *Summary) SharedOutputs() map[string][]string {
	byOutput := map[string][]string{}
	for _, r := range s.Results {
		if r.Err == nil {
			byOutput[r.Output] = append(byOutput[r.Output], r.Input)
		}
	}
	for out, inputs := range byOutput {
		if len(inputs) < 2 {
			delete(byOutput, out)
		}
	}
	return byOutput
}

// feedSuffixes are the names picked up when scanning a directory.
var feedSuffixes = []string{".xml", ".xml.xz"}

// IsFeed reports whether name looks like a team feed.
func IsFeed(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range feedSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Discover expands paths into inputs. No paths means the current directory.
// Directories contribute their feed files (not recursively) in name order;
// files are taken as given.
func Discover(paths []string) []Input {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var inputs []Input
	for _, p := range paths {
		if err := validation.ValidatePath(p); err != nil {
			inputs = append(inputs, Input{Path: p, Err: caperrors.NewIO("read", p, err)})
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			inputs = append(inputs, Input{Path: p, Err: caperrors.NewIO("read", p, err)})
			continue
		}
		if !info.IsDir() {
			inputs = append(inputs, Input{Path: p})
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			inputs = append(inputs, Input{Path: p, Err: caperrors.NewIO("read", p, err)})
			continue
		}
		var names []string
		for _, e := range entries {
			if e.Type().IsRegular() && IsFeed(e.Name()) {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, n := range names {
			inputs = append(inputs, Input{Path: filepath.Join(p, n)})
		}
	}
	return inputs
}

// ConvertFile reads one feed, encodes it and writes <teamId>.cap to outDir,
// or to the feed's own directory when outDir is empty.
func ConvertFile(path, outDir string, opts season.Options) Result {
	start := time.Now()
	res := Result{Input: path}
	if outDir == "" {
		outDir = filepath.Dir(path)
	}

	team, err := season.ReadFile(path, opts)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}
	res.TeamID = team.ID
	res.Players = len(team.Players)

	data, err := capfile.Encode(team)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	out, err := capfile.WriteFile(outDir, team.ID, data)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}
	res.Output = out
	res.Digest = capfile.Digest(data)
	res.Duration = time.Since(start)
	return res
}

type job struct {
	index int
	input Input
}

type indexed struct {
	index  int
	result Result
}

// Run converts inputs with a pool of opts.Workers workers and logs each
// outcome under a fresh run id. Inputs not yet started when ctx is cancelled
// fail with the context error.
func Run(ctx context.Context, inputs []Input, opts Options) *Summary {
	start := time.Now()
	runID := logging.NewRunID()
	ctx = logging.WithRunID(ctx, runID)

	summary := &Summary{RunID: runID, Results: make([]Result, len(inputs))}
	if len(inputs) == 0 {
		logging.WarnContext(ctx, "no input files found")
		summary.Duration = time.Since(start)
		return summary
	}

	pool := NewWorkerPool[job, indexed](opts.Workers, len(inputs))
	logging.BatchStart(ctx, len(inputs), pool.Workers(), opts.OutDir)

	pool.Start(func(j job) indexed {
		if j.input.Err != nil {
			return indexed{j.index, Result{Input: j.input.Path, Err: j.input.Err}}
		}
		if err := ctx.Err(); err != nil {
			return indexed{j.index, Result{Input: j.input.Path, Err: err}}
		}
		logging.DebugContext(ctx, "file_start", "input", j.input.Path)
		return indexed{j.index, ConvertFile(j.input.Path, opts.OutDir, opts.Season)}
	})
	for i, in := range inputs {
		pool.Submit(job{index: i, input: in})
	}
	pool.Close()

	for r := range pool.Results() {
		summary.Results[r.index] = r.result
		if r.result.Err != nil {
			logging.FileFailed(ctx, r.result.Input, r.result.Kind().String(), r.result.Err)
			continue
		}
		logging.FileConverted(ctx, r.result.Input, r.result.Output, r.result.Players, r.result.Digest, r.result.Duration)
	}

	shared := summary.SharedOutputs()
	outputs := make([]string, 0, len(shared))
	for out := range shared {
		outputs = append(outputs, out)
	}
	sort.Strings(outputs)
	for _, out := range outputs {
		logging.WarnContext(ctx, "duplicate_team_id", "output", out, "inputs", shared[out])
	}

	summary.Duration = time.Since(start)
	logging.BatchDone(ctx, summary.Converted(), summary.Failed(), summary.Duration)
	return summary
}
