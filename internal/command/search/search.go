package search

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bornholm/googlesearch/internal/config"
	"github.com/bornholm/googlesearch/internal/logx"
	"github.com/bornholm/googlesearch/pkg/render"
	se "github.com/bornholm/googlesearch/pkg/search"
	"github.com/bornholm/googlesearch/pkg/search/google"
	"github.com/bornholm/googlesearch/pkg/tool"
	"github.com/gobwas/glob"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Search() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the given phrase with the Custom Search JSON API",
		ArgsUsage: "<phrase>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "engine-id",
				Aliases: []string{"cx"},
				EnvVars: []string{"GOOGLESEARCH_ENGINE_ID"},
				Usage:   "Custom search engine identifier",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Aliases: []string{"k"},
				EnvVars: []string{"GOOGLESEARCH_API_KEY"},
				Usage:   "Google console API key",
			},
			&cli.StringFlag{
				Name:    "api-url",
				EnvVars: []string{"GOOGLESEARCH_API_URL"},
				Usage:   "Custom Search JSON API endpoint",
			},
			&cli.BoolFlag{
				Name:    "insecure",
				EnvVars: []string{"GOOGLESEARCH_INSECURE_SKIP_VERIFY"},
				Usage:   "Disable TLS certificate verification",
			},
			&cli.StringSliceFlag{
				Name:    "param",
				Aliases: []string{"p"},
				Usage:   "Additional API parameter as key=value, e.g. num=5 (repeatable)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(render.FormatText),
				Usage:   "Output format (text, markdown, yaml, json, raw)",
			},
			&cli.StringFlag{
				Name:  "filter-link",
				Usage: "Only keep items whose link matches the given glob pattern",
			},
			&cli.StringFlag{
				Name:      "output",
				Aliases:   []string{"o"},
				Value:     "-",
				Usage:     "Write the results to the given file, '-' for stdout",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  "brief",
				Usage: "Print a condensed markdown listing (title, url, description) as served to LLM agents",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Write the results to a file named after the phrase",
			},
		},
		Action: func(cliCtx *cli.Context) error {
			phrase := strings.TrimSpace(strings.Join(cliCtx.Args().Slice(), " "))
			format := render.Format(cliCtx.String("format"))

			ctx := logx.WithAttrs(cliCtx.Context, slog.String("phrase", phrase))

			conf, err := config.Load(ctx, cliCtx.String("config"), cliCtx.String("env-file"))
			if err != nil {
				return errors.Wrapf(err, "failed to load configuration")
			}

			if cliCtx.IsSet("engine-id") {
				conf.EngineID = cliCtx.String("engine-id")
			}

			if cliCtx.IsSet("api-key") {
				conf.APIKey = cliCtx.String("api-key")
			}

			if cliCtx.IsSet("api-url") {
				conf.APIURL = cliCtx.String("api-url")
			}

			if cliCtx.IsSet("insecure") {
				conf.InsecureSkipVerify = cliCtx.Bool("insecure")
			}

			if phrase != "" {
				if err := conf.Validate(); err != nil {
					return errors.Wrapf(err, "invalid configuration")
				}
			}

			params, err := ParseParams(cliCtx.StringSlice("param"))
			if err != nil {
				return errors.WithStack(err)
			}

			if conf.InsecureSkipVerify {
				slog.WarnContext(ctx, "tls certificate verification is disabled")
			}

			client := google.NewClient(conf.ClientConfig(), conf.ClientOptions()...)

			output := cliCtx.String("output")
			if cliCtx.Bool("save") {
				output = OutputFilename(phrase, format)
			}

			var renderFunc func(w io.Writer) error

			if cliCtx.Bool("brief") {
				renderFunc, err = briefRenderer(ctx, client, phrase, params, cliCtx.String("filter-link"))
				if err != nil {
					return errors.WithStack(err)
				}
			} else {
				res, err := client.Query(ctx, phrase, params)
				if err != nil {
					return errors.Wrapf(err, "failed to execute search")
				}

				if pattern := cliCtx.String("filter-link"); pattern != "" {
					res, err = FilterLinks(res, pattern)
					if err != nil {
						return errors.WithStack(err)
					}
				}

				renderFunc = func(w io.Writer) error {
					return render.Render(w, format, res)
				}
			}

			if phrase != "" {
				total, err := client.TotalNumberOfResults()
				if err != nil {
					slog.WarnContext(ctx, "could not retrieve total number of results", slog.Any("error", err))
				} else {
					slog.InfoContext(ctx, "search completed", slog.Int64("total", total))
				}
			}

			if output == "-" || output == "" {
				if err := renderFunc(cliCtx.App.Writer); err != nil {
					return errors.Wrapf(err, "failed to render results")
				}

				return nil
			}

			file, err := os.Create(output)
			if err != nil {
				return errors.Wrapf(err, "failed to create output file '%s'", output)
			}

			if err := WriteAndClose(file, renderFunc); err != nil {
				return errors.Wrapf(err, "failed to write results to '%s'", output)
			}

			slog.InfoContext(ctx, "results written", slog.String("output", output))

			return nil
		},
	}
}

// WriteAndClose renders into wc and always closes it. The close error is
// reported when rendering succeeded.
func WriteAndClose(wc io.WriteCloser, renderFunc func(w io.Writer) error) error {
	if err := renderFunc(wc); err != nil {
		wc.Close()
		return errors.WithStack(err)
	}

	if err := wc.Close(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func briefRenderer(ctx context.Context, client *google.Client, phrase string, params map[string]string, pattern string) (func(w io.Writer) error, error) {
	results, err := google.NewEngine(client, params).Search(ctx, phrase)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to execute search")
	}

	if pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid link pattern '%s'", pattern)
		}

		filtered := make([]se.Result, 0, len(results))
		for _, r := range results {
			if g.Match(r.URL) {
				filtered = append(filtered, r)
			}
		}

		results = filtered
	}

	return func(w io.Writer) error {
		_, err := io.WriteString(w, tool.FormatResults(results))
		return errors.WithStack(err)
	}, nil
}

// ParseParams parses key=value pairs. Later pairs override earlier ones.
func ParseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, errors.Errorf("invalid parameter '%s', expected key=value", pair)
		}

		params[key] = value
	}

	return params, nil
}

// FilterLinks keeps the items whose link matches the glob pattern.
func FilterLinks(res *google.Response, pattern string) (*google.Response, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid link pattern '%s'", pattern)
	}

	return res.Filter(func(item *google.Item) bool {
		return g.Match(item.Link)
	}), nil
}

func OutputFilename(phrase string, format render.Format) string {
	name := slug.Make(phrase)
	if name == "" {
		name = "results"
	}

	return name + format.Extension()
}
