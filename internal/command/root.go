package command

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bornholm/googlesearch/internal/logx"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Main(name string, version string, usage string, commands ...*cli.Command) {
	app := NewApp(name, version, usage, commands...)

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func NewApp(name string, version string, usage string, commands ...*cli.Command) *cli.App {
	app := &cli.App{
		Name:     name,
		Usage:    usage,
		Commands: commands,
		Version:  version,
		Before: func(ctx *cli.Context) error {
			workdir := ctx.String("workdir")
			// Switch to new working directory if defined
			if workdir != "" {
				if err := os.Chdir(workdir); err != nil {
					return errors.Wrap(err, "could not change working directory")
				}
			}

			logger := slog.New(logx.ContextHandler{
				Handler: slog.NewTextHandler(ctx.App.ErrWriter, &slog.HandlerOptions{
					Level: ParseLogLevel(ctx.String("log-level")),
				}),
			})
			slog.SetDefault(logger)

			return nil
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "workdir",
				Value:   "",
				EnvVars: []string{"GOOGLESEARCH_WORKDIR"},
				Usage:   "The working directory",
			},
			&cli.BoolFlag{
				Name:    "debug",
				EnvVars: []string{"GOOGLESEARCH_DEBUG"},
				Usage:   "Enable debug mode",
			},
			&cli.StringFlag{
				Name:      "config",
				Aliases:   []string{"c"},
				EnvVars:   []string{"GOOGLESEARCH_CONFIG"},
				Usage:     "Load configuration from the given YAML file",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:      "env-file",
				Value:     ".env",
				EnvVars:   []string{"GOOGLESEARCH_ENV_FILE"},
				Usage:     "Load environment variables from the given file if it exists",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"GOOGLESEARCH_LOG_LEVEL"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
	}

	app.ExitErrHandler = func(ctx *cli.Context, err error) {
		if err == nil {
			return
		}

		debug := ctx.Bool("debug")

		if !debug {
			slog.ErrorContext(ctx.Context, err.Error())
		} else {
			slog.ErrorContext(ctx.Context, fmt.Sprintf("%+v", err))
		}
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	return app
}

// ParseLogLevel maps a level name to its slog level, defaulting to warn.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
