// Package config loads the jamvm.toml machine configuration.
//
// A missing file is not an error: the tools run with Default() settings.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	FILENAME = "jamvm.toml" // Configuration file name.

	MEMORY_KB_MIN = 1  // Smallest machine memory, in kilobytes.
	MEMORY_KB_MAX = 64 // Largest machine memory, in kilobytes.
)

// Standard signal ids.
const (
	SIGNAL_HALT    = uint8(0xf0) // Halt the machine.
	SIGNAL_PRINT_A = uint8(0xf1) // Print register A.
	SIGNAL_STATUS  = uint8(0xf2) // Print the register status table.
	SIGNAL_DUMP    = uint8(0xf3) // Print a memory dump.
	SIGNAL_GETC    = uint8(0xf4) // Read a tape byte into register A.
	SIGNAL_PUTC    = uint8(0xf5) // Write the low byte of register A to tape.
)

// Config is a jamvm.toml machine configuration.
type Config struct {
	Machine Machine `toml:"machine"`
	Signals Signals `toml:"signals"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-"`
}

// Machine configures the virtual machine.
type Machine struct {
	MemoryKB int  `toml:"memory_kb"`
	Verbose  bool `toml:"verbose"`
}

// Signals assigns the ids of the standard signals.
type Signals struct {
	Halt   uint8 `toml:"halt"`
	PrintA uint8 `toml:"print_a"`
	Status uint8 `toml:"status"`
	Dump   uint8 `toml:"dump"`
	Getc   uint8 `toml:"getc"`
	Putc   uint8 `toml:"putc"`
}

// Default returns the built-in configuration.
func Default() (cfg *Config) {
	cfg = &Config{
		Machine: Machine{
			MemoryKB: MEMORY_KB_MIN,
		},
		Signals: Signals{
			Halt:   SIGNAL_HALT,
			PrintA: SIGNAL_PRINT_A,
			Status: SIGNAL_STATUS,
			Dump:   SIGNAL_DUMP,
			Getc:   SIGNAL_GETC,
			Putc:   SIGNAL_PUTC,
		},
	}

	return
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() (err error) {
	if cfg.Machine.MemoryKB < MEMORY_KB_MIN || cfg.Machine.MemoryKB > MEMORY_KB_MAX {
		err = errors.Join(err, ErrMemorySize(cfg.Machine.MemoryKB))
	}

	seen := map[uint8]bool{}
	sig := cfg.Signals
	for _, id := range []uint8{sig.Halt, sig.PrintA, sig.Status, sig.Dump, sig.Getc, sig.Putc} {
		if seen[id] {
			err = errors.Join(err, ErrSignalDuplicate(id))
		}
		seen[id] = true
	}

	return
}

// Decode parses TOML text over the default configuration.
func Decode(text string) (cfg *Config, err error) {
	cfg = Default()

	md, err := toml.Decode(text, cfg)
	if err != nil {
		cfg = nil
		return
	}

	err = checkUndecoded(md)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		cfg = nil
		return
	}

	return
}

// LoadFile parses a configuration file over the default configuration.
func LoadFile(path string) (cfg *Config, err error) {
	defer func() {
		if err != nil {
			cfg = nil
			err = &ErrConfig{Path: path, Err: err}
		}
	}()

	cfg = Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return
	}

	err = checkUndecoded(md)
	if err != nil {
		return
	}

	err = cfg.Validate()
	if err != nil {
		return
	}

	cfg.Path, err = filepath.Abs(path)

	return
}

// Load parses the jamvm.toml file of a directory.
func Load(dir string) (cfg *Config, err error) {
	return LoadFile(filepath.Join(dir, FILENAME))
}

// FindAndLoad walks up from startDir to find a jamvm.toml file, then loads
// it. Without one, the default configuration is returned.
func FindAndLoad(startDir string) (cfg *Config, err error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return
	}

	for {
		path := filepath.Join(dir, FILENAME)
		if _, serr := os.Stat(path); serr == nil {
			return LoadFile(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			cfg = Default()
			return
		}
		dir = parent
	}
}

// checkUndecoded rejects keys that do not belong to the configuration.
func checkUndecoded(md toml.MetaData) (err error) {
	for _, key := range md.Undecoded() {
		err = errors.Join(err, ErrUnknownKey(key.String()))
	}

	return
}

// Resolve loads the named configuration file, or searches upward from the
// working directory when no file is named.
func Resolve(path string) (cfg *Config, err error) {
	if len(path) != 0 {
		return LoadFile(path)
	}

	return FindAndLoad(".")
}
