// Package config reads run settings from a CUE file.
//
// A settings file is a CUE struct; unknown fields are an error:
//
//	example:   "fact"
//	trace:     true
//	max_steps: 100000
//	log_level: "debug"
package config

import (
	_ "embed"
	"errors"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/ezrec/metal/translate"
)

var f = translate.From

var (
	ErrProgramConflict = errors.New(f("both 'program' and 'example' are set"))
)

//go:embed schema.cue
var schemaSrc string

// Config is a set of run settings.
type Config struct {
	Program  string `json:"program"`   // Program file to run.
	Example  string `json:"example"`   // Example program to run.
	MaxSteps int    `json:"max_steps"` // Step limit; 0 is unlimited.
	Trace    bool   `json:"trace"`     // Print trace hook output.
	Verbose  bool   `json:"verbose"`   // Verbose logging.
	LogFile  string `json:"log_file"`  // JSON log file.
	LogLevel string `json:"log_level"` // Log level name.
	Journal  bool   `json:"journal"`   // Log to the systemd journal.
	Lang     string `json:"lang"`      // Message language.
}

// Load reads settings from a CUE file.
func Load(path string) (cfg Config, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}

	return LoadBytes(path, content)
}

// LoadBytes reads settings from CUE source, validated against the schema.
func LoadBytes(filename string, content []byte) (cfg Config, err error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString("close({" + schemaSrc + "})")
	if err = schema.Err(); err != nil {
		return
	}

	value := ctx.CompileBytes(content, cue.Filename(filename))
	if err = value.Err(); err != nil {
		return
	}

	value = schema.Unify(value)
	if err = value.Validate(cue.Concrete(true)); err != nil {
		return
	}

	err = value.Decode(&cfg)
	if err != nil {
		return
	}

	if len(cfg.Program) != 0 && len(cfg.Example) != 0 {
		err = ErrProgramConflict
		return
	}

	return
}
