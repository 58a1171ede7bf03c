// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const scaffoldTemplate = `// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"github.com/spf13/pflag"

	"github.com/gobench-dev/gobench/pkg/gobench"
	"github.com/gobench-dev/gobench/pkg/gobench/entry"
)

func %sSuite() gobench.SuiteDefinition {
	return gobench.SuiteDefinition{
		Name: %q,
		Setup: func(ctx context.Context, scene *gobench.Scene) error {
			scene.Bench("baseline", func(ctx context.Context) (any, error) {
				return nil, nil
			})
			return nil
		},
		Timing: gobench.TimingDefault(),
	}
}

func main() {
	pattern := pflag.String("pattern", "", "regex filtering case names")
	pflag.Parse()

	if err := entry.Serve(%sSuite(), os.Stdout, *pattern); err != nil {
		os.Exit(1)
	}
}
`

func getScaffoldCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "scaffold <name>",
		Short: "Write a starter suite file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rawName := args[0]
			funcName := strcase.ToCamel(rawName)
			if funcName == "" {
				return errors.New("scaffold: name must contain at least one letter or digit")
			}

			path := outPath
			if path == "" {
				path = strcase.ToSnake(rawName) + ".go"
			}

			if _, err := os.Stat(path); err == nil {
				return errors.Errorf("scaffold: %s already exists", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
				return errors.Wrap(err, "scaffold: create output directory")
			}

			contents := fmt.Sprintf(scaffoldTemplate, funcName, rawName, funcName)
			if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
				return errors.Wrap(err, "scaffold: write suite file")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output path (default: <name in snake_case>.go)")
	return cmd
}
