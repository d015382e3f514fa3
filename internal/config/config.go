package config

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/bornholm/googlesearch/pkg/search/google"
	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-multierror"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

const EnvPrefix = "GOOGLESEARCH_"

type Config struct {
	EngineID           string        `yaml:"engineId" json:"engineId" env:"ENGINE_ID" jsonschema:"description=Custom search engine identifier (cx)"`
	APIKey             string        `yaml:"apiKey" json:"apiKey" env:"API_KEY" jsonschema:"description=Google console API key"`
	APIURL             string        `yaml:"apiUrl" json:"apiUrl" env:"API_URL" jsonschema:"description=Custom Search JSON API endpoint,default=https://www.googleapis.com/customsearch/v1"`
	InsecureSkipVerify bool          `yaml:"insecureSkipVerify" json:"insecureSkipVerify" env:"INSECURE_SKIP_VERIFY" jsonschema:"description=Disable TLS certificate verification"`
	Timeout            time.Duration `yaml:"timeout" json:"timeout" env:"TIMEOUT" jsonschema:"description=Request timeout in nanoseconds in JSON or as a duration string in YAML"`
}

func Default() *Config {
	return &Config{
		APIURL: google.DefaultAPIURL,
	}
}

// Load builds the configuration from the defaults, the given YAML file, the
// given dotenv file and the environment, in that order. Empty filenames are
// ignored.
func Load(ctx context.Context, filename string, dotenv string) (*Config, error) {
	conf := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read config file '%s'", filename)
		}

		if err := yaml.Unmarshal(data, conf); err != nil {
			return nil, errors.Wrapf(err, "could not parse config file '%s'", filename)
		}

		slog.DebugContext(ctx, "loaded config file", slog.String("filename", filename))
	}

	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return nil, errors.Wrapf(err, "could not load env file '%s'", dotenv)
			}

			slog.DebugContext(ctx, "loaded env file", slog.String("filename", dotenv))
		} else if !os.IsNotExist(err) {
			return nil, errors.WithStack(err)
		}
	}

	if err := env.ParseWithOptions(conf, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.Wrap(err, "could not parse environment")
	}

	return conf, nil
}

// Validate reports every missing or invalid field at once.
func (c *Config) Validate() error {
	var err error

	if c.EngineID == "" {
		err = multierror.Append(err, errors.WithStack(google.ErrEngineIDNotSet))
	}

	if c.APIKey == "" {
		err = multierror.Append(err, errors.WithStack(google.ErrAPIKeyNotSet))
	}

	if c.APIURL == "" {
		err = multierror.Append(err, errors.Wrap(google.ErrConfiguration, "api url not set"))
	} else if u, parseErr := url.Parse(c.APIURL); parseErr != nil {
		err = multierror.Append(err, errors.Wrapf(parseErr, "invalid api url '%s'", c.APIURL))
	} else if u.Scheme == "" || u.Host == "" {
		err = multierror.Append(err, errors.Wrapf(google.ErrConfiguration, "invalid api url '%s'", c.APIURL))
	}

	if c.Timeout < 0 {
		err = multierror.Append(err, errors.Wrapf(google.ErrConfiguration, "invalid timeout '%s'", c.Timeout))
	}

	return err
}

func (c *Config) ClientConfig() google.Config {
	return google.Config{
		EngineID: c.EngineID,
		APIKey:   c.APIKey,
		APIURL:   c.APIURL,
	}
}

func (c *Config) ClientOptions() []google.OptionFunc {
	return []google.OptionFunc{
		google.WithInsecureSkipVerify(c.InsecureSkipVerify),
		google.WithTimeout(c.Timeout),
	}
}

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "googlesearch configuration"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}
