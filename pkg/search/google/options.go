package google

import (
	"crypto/tls"
	"net/http"
	"time"
)

const DefaultAPIURL = "https://www.googleapis.com/customsearch/v1"

// Config holds the credentials and endpoint used by the client.
type Config struct {
	EngineID string
	APIKey   string
	APIURL   string
}

type Options struct {
	HTTPClient         *http.Client
	InsecureSkipVerify bool
	Timeout            time.Duration
}

type OptionFunc func(opts *Options)

// WithHTTPClient sets the HTTP client used to reach the API.
// TLS related options are ignored when a client is provided.
func WithHTTPClient(client *http.Client) OptionFunc {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithInsecureSkipVerify disables the verification of the server's
// certificate chain and host name.
func WithInsecureSkipVerify(insecure bool) OptionFunc {
	return func(opts *Options) {
		opts.InsecureSkipVerify = insecure
	}
}

// WithTimeout sets the timeout of a single search request
func WithTimeout(timeout time.Duration) OptionFunc {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

func NewOptions(funcs ...OptionFunc) *Options {
	opts := &Options{}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

func newHTTPClient(opts *Options) *http.Client {
	if opts.HTTPClient != nil {
		return opts.HTTPClient
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()

	if opts.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
}
