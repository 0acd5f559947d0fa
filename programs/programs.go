// Package programs holds the example Metal programs.
package programs

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/ezrec/metal/cpu"
	"github.com/ezrec/metal/loader"
	"github.com/ezrec/metal/translate"
)

var f = translate.From

var ErrProgramUnknown = errors.New(f("unknown example program"))

const EXT = ".star"

//go:embed *.star
var files embed.FS

// Names returns the names of the example programs, sorted.
func Names() (names []string) {
	entries, _ := fs.ReadDir(files, ".")
	for _, entry := range entries {
		name := entry.Name()
		if path.Ext(name) == EXT {
			names = append(names, strings.TrimSuffix(name, EXT))
		}
	}
	slices.Sort(names)
	return
}

// Source returns the program file of an example.
func Source(name string) (src []byte, err error) {
	if !slices.Contains(Names(), name) {
		err = errors.Join(ErrProgramUnknown, errors.New(name))
		return
	}

	return files.ReadFile(name + EXT)
}

// Load decodes an example program and its trace hooks.
func Load(ld *loader.Loader, name string) (prog *cpu.Program, trace *loader.Trace, err error) {
	src, err := Source(name)
	if err != nil {
		return
	}

	return ld.Parse(name+EXT, bytes.NewReader(src))
}
