// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/jamvm/config"
	"github.com/ezrec/jamvm/emulator"
)

func main() {
	log.SetFlags(0)

	var configFile string
	var verbose bool
	var maxTicks int
	var status bool

	rootCmd := &cobra.Command{
		Use:           "jrun prog.bin",
		Short:         "Run a jamvm binary until it halts",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := config.Resolve(configFile)
			if err != nil {
				return
			}

			code, err := os.ReadFile(args[0])
			if err != nil {
				return
			}

			emu := emulator.NewEmulator(cfg)
			emu.Verbose = emu.Verbose || verbose
			emu.Tape.Input = os.Stdin
			emu.Tape.Output = os.Stdout

			err = emu.LoadBinary(code)
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}

			err = emu.Reset()
			if err != nil {
				return
			}

			err = emu.Run(maxTicks)
			if err != nil || status {
				fmt.Fprintln(os.Stderr, emu.Status())
			}

			return
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "jamvm.toml configuration file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every instruction")
	rootCmd.Flags().IntVarP(&maxTicks, "max-ticks", "t", 0, "stop after this many ticks (0 = no limit)")
	rootCmd.Flags().BoolVarP(&status, "status", "s", false, "print the registers on exit")

	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
