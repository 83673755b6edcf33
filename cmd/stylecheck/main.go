package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/stylecheck/internal/cache"
	"github.com/standardbeagle/stylecheck/internal/config"
	"github.com/standardbeagle/stylecheck/internal/debug"
	"github.com/standardbeagle/stylecheck/internal/lint"
	"github.com/standardbeagle/stylecheck/internal/parser"
	"github.com/standardbeagle/stylecheck/internal/rules"
	"github.com/standardbeagle/stylecheck/internal/security"
	"github.com/standardbeagle/stylecheck/internal/version"
)

// Exit statuses.
const (
	exitClean      = 0
	exitViolations = 1
	exitFatal      = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the CLI and maps its outcome to an exit status: ExitCoder
// errors carry their own code, anything else is fatal.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(args)
	if err == nil {
		return exitClean
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintf(stderr, "stylecheck: %v\n", err)
	return exitFatal
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path (default: .stylecheck.kdl or .stylecheck.toml in the root)",
		},
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Project root directory (overrides config)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Lint only files matching glob patterns (e.g., --include '**/*.swift')",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Skip files matching glob patterns (e.g., --exclude '**/Generated/**')",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Files linted in parallel (0 = auto)",
		},
		&cli.BoolFlag{
			Name:  "sourcekitten",
			Usage: "Parse Swift with an installed sourcekitten",
		},
	}
}

func lintFlags() []cli.Flag {
	return append(configFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text or json",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Fail on warnings as well as errors",
		},
		&cli.BoolFlag{
			Name:  "no-context",
			Usage: "Do not print the offending source line",
		},
		&cli.StringFlag{
			Name:  "changed",
			Usage: "Lint only files git reports as changed: staged, wip or range",
		},
		&cli.StringFlag{
			Name:  "since",
			Usage: "Lint only files changed between this ref and HEAD (implies --changed range)",
		},
	)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "stylecheck",
		Usage:                  "Style checks for Swift sources",
		UsageText:              "stylecheck [lint] [options] [paths...]",
		Version:                version.Version,
		Writer:                 stdout,
		ErrWriter:              stderr,
		UseShortOptionHandling: true,
		ExitErrHandler:         func(*cli.Context, error) {},
		Flags: append(lintFlags(),
			&cli.StringFlag{
				Name:  "debug-log",
				Usage: "Append parser, lint, watch and MCP traces to this file",
			},
		),
		Before: func(c *cli.Context) error {
			if path := c.String("debug-log"); path != "" {
				return debug.OpenTraceFile(path)
			}
			return nil
		},
		After: func(*cli.Context) error {
			return debug.Close()
		},
		Action: lintCommand,
		Commands: []*cli.Command{
			{
				Name:      "lint",
				Aliases:   []string{"l"},
				Usage:     "Lint files or directories (default command)",
				ArgsUsage: "[paths...]",
				Flags:     lintFlags(),
				Action:    lintCommand,
			},
			{
				Name:  "rules",
				Usage: "List the configured rules",
				Flags: append(configFlags(),
					&cli.BoolFlag{
						Name:  "examples",
						Usage: "Show triggering and non-triggering examples",
					},
				),
				Action: rulesCommand,
			},
			{
				Name:   "examples",
				Usage:  "Check every rule against its documented examples",
				Flags:  configFlags(),
				Action: examplesCommand,
			},
			{
				Name:      "structure",
				Usage:     "Print the structure tree parsed from a file",
				ArgsUsage: "<file>",
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, json or compact",
						Value: "text",
					},
					&cli.BoolFlag{
						Name:  "lines",
						Usage: "Show line:col ranges instead of byte offsets",
					},
					&cli.BoolFlag{
						Name:  "snippets",
						Usage: "Show the first source line of each node",
					},
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Maximum depth to print (0 = all)",
					},
				),
				Action: structureCommand,
			},
			{
				Name:      "watch",
				Aliases:   []string{"w"},
				Usage:     "Lint, then re-lint files as they change",
				ArgsUsage: "[dirs...]",
				Flags:     lintFlags(),
				Action:    watchCommand,
			},
			{
				Name:  "mcp",
				Usage: "Start MCP (Model Context Protocol) server with stdio transport",
				Flags: append(configFlags(),
					&cli.StringFlag{
						Name:  "log-file",
						Usage: "Write server diagnostics to this file instead of stderr",
					},
				),
				Action: mcpCommand,
			},
		},
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadWithRoot(c.String("config"), c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}
	if c.IsSet("workers") {
		cfg.Performance.Workers = c.Int("workers")
	}
	if c.Bool("sourcekitten") {
		cfg.Parser.SourceKitten = true
	}
	if format := c.String("format"); format != "" && !isStructure(c) {
		cfg.Output.Format = format
	}
	if c.Bool("no-color") || color.NoColor {
		cfg.Output.Color = false
	}
	if c.Bool("strict") {
		cfg.Output.Strict = true
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newDispatcher builds the parser dispatcher the config asks for.
func newDispatcher(cfg *config.Config) *parser.Dispatcher {
	return parser.NewDispatcher(parser.Options{
		SourceKitten:     cfg.Parser.SourceKitten,
		SourceKittenPath: cfg.Parser.SourceKittenPath,
	})
}

// newRunner wires registry, parser, filter and cache from the config.
func newRunner(cfg *config.Config, c *cache.ResultCache) (*lint.Runner, *rules.Registry, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, nil, err
	}
	d := newDispatcher(cfg)
	runner := lint.NewRunner(lint.NewLinter(reg), d, lint.Options{
		Workers: cfg.WorkerCount(),
		Filter: &lint.Filter{
			Root:      cfg.Project.Root,
			Include:   cfg.Include,
			Exclude:   cfg.Exclude,
			Supported: d.Supported,
			Validator: security.NewFileValidator(cfg.Performance.MaxFileSize),
		},
		Cache: c,
	})
	return runner, reg, nil
}

// absPaths makes command line paths absolute so they share the root's form.
func absPaths(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", a, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

// isStructure reports whether c runs the structure command, whose --format
// selects a tree rendering rather than the report format.
func isStructure(c *cli.Context) bool {
	return c.Command != nil && c.Command.Name == "structure"
}
