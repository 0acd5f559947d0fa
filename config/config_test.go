package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytes(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	cfg, err := LoadBytes("test.cue", []byte(`
example:   "fact"
trace:     true
max_steps: 1000
log_level: "debug"
lang:      "fr"
`))
	require.NoError(err)

	assert.Equal(Config{
		Example:  "fact",
		Trace:    true,
		MaxSteps: 1000,
		LogLevel: "debug",
		Lang:     "fr",
	}, cfg)
}

func TestLoadBytesEmpty(t *testing.T) {
	assert := assert.New(t)

	cfg, err := LoadBytes("empty.cue", nil)
	assert.NoError(err)
	assert.Equal(Config{}, cfg)
}

func TestLoadBytesInvalid(t *testing.T) {
	table := [](struct {
		name   string
		source string
	}){
		{"unknown-field", `colour: "red"`},
		{"negative-steps", `max_steps: -1`},
		{"bad-level", `log_level: "loud"`},
		{"wrong-type", `trace: "yes"`},
		{"syntax", `example: `},
		{"not-concrete", `example: string`},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := LoadBytes(entry.name+".cue", []byte(entry.source))
			assert.Error(err)
		})
	}
}

func TestLoadBytesConflict(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadBytes("both.cue", []byte(`
program: "x.star"
example: "fact"
`))
	assert.ErrorIs(err, ErrProgramConflict)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "metal.cue")
	require.NoError(os.WriteFile(path, []byte(`program: "prog.star"`+"\n"+`verbose: true`+"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(err)
	assert.Equal("prog.star", cfg.Program)
	assert.True(cfg.Verbose)

	_, err = Load(filepath.Join(t.TempDir(), "missing.cue"))
	assert.ErrorIs(err, os.ErrNotExist)
}
