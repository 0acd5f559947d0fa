// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/metal/config"
	"github.com/ezrec/metal/cpu"
	"github.com/ezrec/metal/emulator"
	"github.com/ezrec/metal/internal/logs"
	"github.com/ezrec/metal/loader"
	"github.com/ezrec/metal/programs"
	"github.com/ezrec/metal/translate"
)

var f = translate.From

var ErrNoProgram = errors.New(f("no program; use -p or -e"))

func main() {
	var cfg config.Config
	var configPath string
	var list bool

	flag.StringVar(&cfg.Program, "p", "", ".star program file to run")
	flag.StringVar(&cfg.Example, "e", "", "Example program to run (see -list)")
	flag.StringVar(&configPath, "config", "", ".cue settings file")
	flag.BoolVar(&cfg.Trace, "t", false, "Print trace hook output")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose mode")
	flag.IntVar(&cfg.MaxSteps, "max-steps", 0, "Step limit (0 is unlimited)")
	flag.StringVar(&cfg.LogFile, "log", "", "JSON log file")
	flag.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flag.BoolVar(&cfg.Journal, "journal", false, "Also log to the systemd journal")
	flag.StringVar(&cfg.Lang, "lang", "", "Message language (BCP 47)")
	flag.BoolVar(&list, "list", false, "List the example programs")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if list {
		for _, name := range programs.Names() {
			fmt.Println(name)
		}
		return
	}

	if len(configPath) != 0 {
		file, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("%v: %v", configPath, err)
		}
		cfg = merge(file, cfg, visited())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, cfg, os.Stdout, os.Stderr)
	if err != nil {
		stop()
		log.Fatal(err)
	}
}

// visited returns the names of the flags set on the command line.
func visited() (set map[string]bool) {
	set = map[string]bool{}
	flag.Visit(func(fl *flag.Flag) {
		set[fl.Name] = true
	})
	return
}

// merge overrides the file settings with the flags that were set.
func merge(file config.Config, flags config.Config, set map[string]bool) (cfg config.Config) {
	cfg = file

	if set["p"] {
		cfg.Program = flags.Program
		cfg.Example = ""
	}
	if set["e"] {
		cfg.Example = flags.Example
		cfg.Program = ""
	}
	if set["t"] {
		cfg.Trace = flags.Trace
	}
	if set["v"] {
		cfg.Verbose = flags.Verbose
	}
	if set["max-steps"] {
		cfg.MaxSteps = flags.MaxSteps
	}
	if set["log"] {
		cfg.LogFile = flags.LogFile
	}
	if set["log-level"] {
		cfg.LogLevel = flags.LogLevel
	}
	if set["journal"] {
		cfg.Journal = flags.Journal
	}
	if set["lang"] {
		cfg.Lang = flags.Lang
	}

	return
}

// run loads and executes the configured program.
func run(ctx context.Context, cfg config.Config, stdout io.Writer, stderr io.Writer) (err error) {
	if len(cfg.Lang) != 0 {
		translate.SetLanguage(cfg.Lang)
	}

	level, err := logs.ParseLevel(cfg.LogLevel)
	if err != nil {
		return
	}

	logger, closer, err := logs.New(logs.Options{
		Level:   level,
		Writer:  stderr,
		File:    cfg.LogFile,
		Journal: cfg.Journal,
	})
	if err != nil {
		return
	}
	defer func() {
		err = errors.Join(err, closer())
	}()

	emu := emulator.NewEmulator()
	emu.Verbose = cfg.Verbose
	emu.MaxSteps = cfg.MaxSteps
	emu.Logger = logger
	emu.Output = stdout

	ld := &loader.Loader{Verbose: cfg.Verbose}
	for name, value := range emu.Defines() {
		ld.Predefine(name, int64(value))
	}

	var prog *cpu.Program
	var trace *loader.Trace

	switch {
	case len(cfg.Program) != 0:
		var inf *os.File
		inf, err = os.Open(cfg.Program)
		if err != nil {
			return
		}
		defer inf.Close()

		prog, trace, err = ld.Parse(cfg.Program, inf)
	case len(cfg.Example) != 0:
		prog, trace, err = programs.Load(ld, cfg.Example)
	default:
		err = ErrNoProgram
	}
	if err != nil {
		return
	}

	emu.Program = prog
	if cfg.Trace {
		emu.Observer = trace
		emu.Trace = stdout
	}

	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Run(ctx)

	return
}
