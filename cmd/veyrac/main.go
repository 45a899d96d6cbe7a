// Command veyrac is Veyra's compiler front end: a cobra root command
// with compile/check/emit-rocq subcommands.
package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oxhq/veyra/internal/cli"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "veyrac",
		Short: "Veyra compiler front end",
		Long:  "veyrac parses, type-checks, and translates Veyra source into Rocq formal-verification output.",
	}
	// Accept underscore spellings (--emit_rocq) for every flag.
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	var showRecovery bool
	checkCmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and type-check a source file without compiling it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.NewEnv()
			if err != nil {
				return err
			}
			defer env.Cache.Close()
			return env.Check(args[0], showRecovery)
		},
	}
	checkCmd.Flags().BoolVar(&showRecovery, "show-recovery", false, "on parse failure, dump the best-effort recovered AST")

	var wasmPath string
	var emitRocq bool
	compileCmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Check a source file and optionally emit Rocq output for an associated WASM binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.NewEnv()
			if err != nil {
				return err
			}
			defer env.Cache.Close()
			return env.Compile(args[0], wasmPath, emitRocq)
		},
	}
	compileCmd.Flags().StringVar(&wasmPath, "wasm", "", "path to the compiled WASM binary to translate (codegen itself is external to this tool)")
	compileCmd.Flags().BoolVar(&emitRocq, "emit-rocq", false, "translate --wasm to Rocq output after checking")

	var moduleName string
	emitRocqCmd := &cobra.Command{
		Use:   "emit-rocq <wasm-file>",
		Short: "Translate a WASM binary into Rocq source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.NewEnv()
			if err != nil {
				return err
			}
			defer env.Cache.Close()
			name := moduleName
			if name == "" {
				name = "M"
			}
			return env.EmitRocq(args[0], name)
		},
	}
	emitRocqCmd.Flags().StringVar(&moduleName, "module-name", "", "Rocq module identifier to emit (default \"M\")")

	root.AddCommand(checkCmd, compileCmd, emitRocqCmd)
	root.SilenceUsage = true
	return root
}
