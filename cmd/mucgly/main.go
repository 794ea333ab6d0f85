// Copyright (C) 2026 Mucgly Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command mucgly runs the macro-scanning engine against one input, writing
// the transformed result to an output destination.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/SnellerInc/mucgly/engine"
	"github.com/SnellerInc/mucgly/hook"
	"github.com/SnellerInc/mucgly/idcodec"
	"github.com/SnellerInc/mucgly/includecache"
	"github.com/SnellerInc/mucgly/metrics"
	"github.com/SnellerInc/mucgly/profile"
	"github.com/SnellerInc/mucgly/replay"
	"github.com/SnellerInc/mucgly/scripteval"
	"github.com/SnellerInc/mucgly/sink"
	"github.com/SnellerInc/mucgly/source"
)

var (
	dasho       string
	dashtrace   string
	dashprofile string
	dashflush   bool
	dashcache   bool
	dashtag     bool
	dashmetrics bool
)

func init() {
	flag.StringVar(&dasho, "o", "", "output file (default: standard output)")
	flag.StringVar(&dashtrace, "trace", "", "zstd-compressed replay trace file (default: none)")
	flag.StringVar(&dashprofile, "profile", "", "YAML file overriding the default hook delimiters")
	flag.BoolVar(&dashflush, "flush", false, "flush (and fsync real files) on every emitted write")
	flag.BoolVar(&dashcache, "cache", false, "warn on byte-identical :include content")
	flag.BoolVar(&dashtag, "tag", false, "fingerprint dispatched macro bodies for :cacheinfo")
	flag.BoolVar(&dashmetrics, "metrics", false, "print run counters to standard error when the run finishes")
}

func exitf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

// envOrFlag returns flagVal if set, otherwise the named environment
// variable, matching the override precedence auth.NewEnvProvider uses for
// SNELLER_* settings: explicit configuration wins, the environment is a
// fallback for unattended invocations.
func envOrFlag(flagVal, envName string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envName)
}

func main() {
	flag.Parse()

	dashtrace = envOrFlag(dashtrace, "MUCGLY_TRACE")
	dashprofile = envOrFlag(dashprofile, "MUCGLY_PROFILE")

	runID := uuid.New().String()

	defaults := hook.Default()
	if dashprofile != "" {
		cfg, err := profile.Load(dashprofile)
		if err != nil {
			exitf("mucgly: %s", err)
		}
		defaults = cfg
	}

	infile := ""
	if flag.NArg() > 0 {
		infile = flag.Arg(0)
	}

	sources := source.NewStack(defaults)
	if err := sources.Push(infile); err != nil {
		exitf("mucgly: opening input: %s", err)
	}

	outSink, closeOut, err := openOutput(dasho, dashtrace)
	if err != nil {
		exitf("mucgly: %s", err)
	}
	defer closeOut()
	sinks := sink.NewStackWith(outSink)

	ev := scripteval.New()

	eng := engine.New(sources, sinks, ev)
	eng.Program = "mucgly"
	eng.Flush = dashflush
	if dashcache {
		eng.Cache = includecache.New()
	}
	if dashtag {
		tagger, err := idcodec.NewRandom()
		if err != nil {
			exitf("mucgly: %s", err)
		}
		eng.Tagger = tagger
	}
	if dashmetrics {
		eng.Metrics = metrics.New()
	}

	if err := scripteval.RegisterEngine(ev, eng); err != nil {
		exitf("mucgly: %s", err)
	}

	runErr := eng.Run()

	for _, w := range eng.Warnings {
		fmt.Fprintf(os.Stderr, "%s\n", w.Error())
	}

	if eng.Metrics != nil {
		fmt.Fprintf(os.Stderr, "mucgly[%s]: %s\n", runID, eng.Metrics)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "mucgly[%s]: %s\n", runID, runErr)
		os.Exit(1)
	}
}

// openOutput builds the top-level sink: standard output or a named file,
// optionally teed through a zstd-compressed replay trace.
func openOutput(name, tracePath string) (*sink.Sink, func(), error) {
	var (
		dest    = os.Stdout
		outName = sink.Stdout
	)
	if name != "" {
		f, err := os.Create(name)
		if err != nil {
			return nil, nil, fmt.Errorf("opening output %s: %w", name, err)
		}
		dest = f
		outName = name
	}

	if tracePath == "" {
		s := sink.New(outName, dest, fileCloser(dest, name != ""), name == "")
		return s, func() { s.Close() }, nil
	}

	tw, err := replay.Open(tracePath, dest)
	if err != nil {
		if name != "" {
			dest.Close()
		}
		return nil, nil, err
	}
	s := sink.New(outName, tw, fileCloser(dest, name != ""), name == "")
	return s, func() {
		s.Close()
		tw.Close()
	}, nil
}

// fileCloser returns a closer for dest when it is a real file the driver
// opened itself; standard output is never closed.
func fileCloser(dest *os.File, isRealFile bool) io.Closer {
	if !isRealFile {
		return nil
	}
	return dest
}
