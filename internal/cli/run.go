// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gobench-dev/gobench/pkg/gobench"
	"github.com/gobench-dev/gobench/pkg/gobench/build"
	"github.com/gobench-dev/gobench/pkg/gobench/exec"
	"github.com/gobench-dev/gobench/pkg/gobench/message"
	"github.com/gobench-dev/gobench/pkg/gobench/persist"
	"github.com/gobench-dev/gobench/pkg/gobench/report"
	"github.com/gobench-dev/gobench/pkg/util/random"
)

// runConfig mirrors the --config YAML file shape; CLI flags override it
// field by field.
type runConfig struct {
	Name     string `yaml:"name"`
	Tag      string `yaml:"tag"`
	Builder  string `yaml:"builder"`
	Executor string `yaml:"executor"`
	Shared   bool   `yaml:"shared"`
}

func loadRunConfig(path string) (runConfig, error) {
	var cfg runConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config file")
	}
	return cfg, nil
}

func getRunCommand() *cobra.Command {
	var configPath string
	var file string
	var builderName string
	var executorName string
	var name string
	var tag string
	var shared bool
	var pattern string
	var statePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and run a benchmark suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(configPath)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("builder") && cfg.Builder != "" {
				builderName = cfg.Builder
			}
			if !cmd.Flags().Changed("executor") && cfg.Executor != "" {
				executorName = cfg.Executor
			}
			if name == "" {
				name = cfg.Name
			}
			if tag == "" {
				tag = cfg.Tag
			}
			if !cmd.Flags().Changed("shared") {
				shared = cfg.Shared
			}

			if file == "" {
				return errors.New("run: --file is required")
			}
			if name == "" {
				name = random.NewPetName(2)
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			logger := NewLogger(os.Stdout)

			runDir, err := os.MkdirTemp("", "gobench-run-*")
			if err != nil {
				return errors.Wrap(err, "run: create scratch directory")
			}
			defer os.RemoveAll(runDir)

			cacheDir := ""
			if shared {
				cacheDir = filepath.Join(os.TempDir(), "gobench-build-cache")
			}
			builder := &build.LocalBuilder{CacheDir: cacheDir}
			if err := builder.Build(cmd.Context(), runDir, []string{file}); err != nil {
				return err
			}

			var finalErr error
			var results []message.ResultRecord
			executorImpl := pickExecutor(executorName)
			spec := exec.Spec{
				EntryPath: filepath.Join(runDir, "entry"),
				Pattern:   pattern,
				Dispatch: func(rec message.Record) {
					switch r := rec.(type) {
					case message.LogRecord:
						if r.Level == gobench.LevelDebug && !verbose {
							return
						}
						logger.Log(r.Level, r.Message)
					case message.ErrorRecord:
						finalErr = errors.Errorf("%s: %s", r.Name, r.Message)
					case message.ResultRecord:
						results = append(results, r)
					}
				},
			}
			if err := executorImpl.Execute(context.Background(), spec); err != nil {
				return err
			}
			if finalErr != nil {
				return finalErr
			}
			if len(results) == 0 {
				return errors.New("run: entry produced no result")
			}

			toolchain := results[0].Result.RunResult
			key := name
			if tag != "" {
				key = fmt.Sprintf("%s/%s", name, tag)
			}

			if statePath != "" {
				store := persist.Open(statePath)
				state, err := store.Load()
				if err != nil {
					return err
				}
				state[key] = append(state[key], toolchainResultOf(toolchain, builderName, executorName))
				if err := store.Save(state); err != nil {
					return err
				}
			}

			reporter := &report.TableReporter{}
			return reporter.Report(os.Stdout, key, []gobench.ToolchainResult{toolchainResultOf(toolchain, builderName, executorName)})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML run configuration file")
	cmd.Flags().StringVar(&file, "file", "", "suite entry source file")
	cmd.Flags().StringVar(&builderName, "builder", "local", "builder identifier recorded on results")
	cmd.Flags().StringVar(&executorName, "executor", "local", "executor identifier recorded on results")
	cmd.Flags().StringVar(&name, "name", "", "suite key recorded in persisted state (default: a random pet name)")
	cmd.Flags().StringVar(&tag, "tag", "", "optional toolchain tag appended to the suite key")
	cmd.Flags().BoolVar(&shared, "shared", false, "share a build cache across suites instead of rebuilding")
	cmd.Flags().StringVar(&pattern, "pattern", "", "regex filtering case names at registration")
	cmd.Flags().StringVar(&statePath, "state", "", "path to the persisted-state JSON file")
	return cmd
}

func toolchainResultOf(rr gobench.RunResult, builder, executor string) gobench.ToolchainResult {
	return gobench.ToolchainResult{RunResult: rr, Builder: builder, Executor: executor}
}

func pickExecutor(name string) exec.Executor {
	switch name {
	default:
		return exec.LocalExecutor{}
	}
}
