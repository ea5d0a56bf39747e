// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/ezrec/jamvm/config"
	"github.com/ezrec/jamvm/emulator"
)

func main() {
	log.SetFlags(0)

	var configFile string
	var verbose bool
	var history string

	rootCmd := &cobra.Command{
		Use:   "jrepl",
		Short: "Interactive jamvm machine",
		Long: `jrepl assembles and executes one instruction per line.

'restart' resets the machine, and 'quit', 'exit' or 'break' leave.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := config.Resolve(configFile)
			if err != nil {
				return
			}

			emu := emulator.NewEmulator(cfg)
			emu.Verbose = emu.Verbose || verbose

			rl, err := readline.NewEx(&readline.Config{
				Prompt:      ">>> ",
				HistoryFile: history,
			})
			if err != nil {
				return
			}
			defer rl.Close()

			emu.Tape.Output = rl.Stdout()

			session, err := emulator.NewSession(emu, rl.Stdout())
			if err != nil {
				return
			}

			for {
				line, rerr := rl.Readline()
				if errors.Is(rerr, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(rerr, io.EOF) {
					return
				}
				if rerr != nil {
					return rerr
				}

				err = session.Feed(line)
				if errors.Is(err, emulator.ErrQuit) {
					return nil
				}
				if err != nil {
					return
				}
			}
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "jamvm.toml configuration file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace every instruction")
	rootCmd.Flags().StringVar(&history, "history", filepath.Join(os.TempDir(), "jamvm_history.txt"), "command history file")

	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		os.Exit(1)
	}
}
