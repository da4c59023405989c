// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/stencil/internal/gen"
	"github.com/Thermoquad/stencil/internal/schema"
)

var (
	genOutput  string
	genPackage string
)

var genCmd = &cobra.Command{
	Use:   "gen [schema.yaml]",
	Short: "Generate Go code for the types in a schema",
	Long: `Generate Go source implementing every type in a schema.

Records become structs and unions become a tag type plus a struct holding the
active variant. Every type gets Encode, Decode and ExactLen methods over the
wire package, so generated values can be framed with a checksum and parsed
out of a ring buffer without allocation.

The schema is taken from the argument, or from --schema if no argument is
given. Output goes to stdout unless --output is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGen,
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Write generated code to this file")
	genCmd.Flags().StringVar(&genPackage, "package", "", "Override the schema's package name")
}

func runGen(cmd *cobra.Command, args []string) error {
	path := cfg.Schema.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("a schema file must be given")
	}

	doc, err := schema.Load(path)
	if err != nil {
		return err
	}
	src, err := gen.Generate(doc, gen.Options{Package: genPackage, Source: path})
	if err != nil {
		return err
	}

	if genOutput == "" {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	if err := os.WriteFile(genOutput, src, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", genOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d types into %s\n", len(doc.Types), genOutput)
	return nil
}
