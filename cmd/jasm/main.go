// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezrec/jamvm/config"
	"github.com/ezrec/jamvm/cpu"
	"github.com/ezrec/jamvm/emulator"
)

type options struct {
	input   string
	output  string
	run     bool
	reverse bool
	config  string
	verbose bool
}

func main() {
	log.SetFlags(0)

	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "jasm [file]",
		Short: "Assembler for the jamvm virtual machine",
		Long: `jasm assembles .jam source into a flat jamvm binary.

With -r the program is run in-process instead, and the binary is only
written when -o is also given. With -R the input is a binary, and is
disassembled one instruction per line.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if len(opts.input) != 0 {
					return errors.New("jasm: both a file argument and -i given")
				}
				opts.input = args[0]
			}
			if len(opts.input) == 0 {
				return errors.New("jasm: no input file")
			}

			if opts.reverse {
				return disassemble(opts)
			}
			return assemble(opts)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVarP(&opts.input, "input", "i", "", ".jam file to assemble")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.bin)")
	rootCmd.Flags().BoolVarP(&opts.run, "run", "r", false, "run the program after assembly")
	rootCmd.Flags().BoolVarP(&opts.reverse, "reverse", "R", false, "disassemble a binary")
	rootCmd.Flags().StringVarP(&opts.config, "config", "c", "", "jamvm.toml configuration file")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose mode")

	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}

// disassemble prints a binary, one instruction per line.
func disassemble(opts *options) (err error) {
	code, err := os.ReadFile(opts.input)
	if err != nil {
		return
	}

	lines, err := cpu.DisassembleText(code)
	if err != nil {
		return fmt.Errorf("%v: %w", opts.input, err)
	}

	for _, line := range lines {
		fmt.Println(line)
	}

	return
}

// assemble assembles the input, and then writes and/or runs it.
func assemble(opts *options) (err error) {
	cfg, err := config.Resolve(opts.config)
	if err != nil {
		return
	}

	emu := emulator.NewEmulator(cfg)
	emu.Verbose = emu.Verbose || opts.verbose
	emu.Tape.Input = os.Stdin
	emu.Tape.Output = os.Stdout

	inf, err := os.Open(opts.input)
	if err != nil {
		return
	}
	defer inf.Close()

	err = emu.Assemble(inf)
	if err != nil {
		var syntax *cpu.ErrSyntax
		if errors.As(err, &syntax) {
			fmt.Fprintln(os.Stderr, syntax.Line)
			fmt.Fprintln(os.Stderr, strings.Repeat("~", len(syntax.Line)))
		}
		return fmt.Errorf("%v: %w", opts.input, err)
	}

	if emu.Verbose {
		for line := range emu.Program.Lines() {
			log.Print(line)
		}
	}

	output := opts.output
	if !opts.run && len(output) == 0 {
		output = strings.TrimSuffix(opts.input, filepath.Ext(opts.input)) + ".bin"
	}

	if len(output) != 0 {
		err = os.WriteFile(output, emu.Program.Binary(), 0o644)
		if err != nil {
			return
		}
	}

	if opts.run {
		err = emu.Reset()
		if err == nil {
			err = emu.Run(0)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, emu.Status())
			return
		}
	}

	return
}
