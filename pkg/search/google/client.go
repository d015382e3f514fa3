package google

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Client queries the Google Custom Search JSON API and keeps the last
// successful response.
type Client struct {
	mutex sync.RWMutex

	engineID string
	apiKey   string
	apiURL   string

	httpClient *http.Client
	response   *Response
}

func (c *Client) SetEngineID(engineID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.engineID = engineID
}

func (c *Client) SetAPIKey(apiKey string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.apiKey = apiKey
}

func (c *Client) SetAPIURL(apiURL string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.apiURL = apiURL
}

// Search executes a search for the given phrase and returns the matching
// items. Additional API parameters (num, start, lr...) are merged after the
// key and q parameters and may override them.
//
// An empty phrase returns no items without querying the API.
func (c *Client) Search(ctx context.Context, phrase string, params map[string]string) ([]*Item, error) {
	res, err := c.Query(ctx, phrase, params)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if res.Items == nil {
		return []*Item{}, nil
	}

	return res.Items, nil
}

// Query behaves like Search but returns the whole decoded response.
func (c *Client) Query(ctx context.Context, phrase string, params map[string]string) (*Response, error) {
	if phrase == "" {
		return emptyResponse(), nil
	}

	c.mutex.RLock()
	engineID, apiKey, apiURL := c.engineID, c.apiKey, c.apiURL
	c.mutex.RUnlock()

	if engineID == "" {
		return nil, errors.WithStack(ErrEngineIDNotSet)
	}

	if apiKey == "" {
		return nil, errors.WithStack(ErrAPIKeyNotSet)
	}

	searchURL := apiURL + "?" + buildQuery(engineID, apiKey, phrase, params)

	slog.DebugContext(ctx, "executing search", slog.String("url", redactKey(searchURL)))

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := DecodeResponse(body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	c.mutex.Lock()
	c.response = res
	c.mutex.Unlock()

	return res, nil
}

// RawResult returns the last stored response, or nil if no search succeeded yet.
func (c *Client) RawResult() *Response {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.response
}

func (c *Client) SearchInformation() (*SearchInformation, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.response == nil || c.response.Search == nil {
		return nil, errors.Wrap(ErrInvalidState, "no search response stored")
	}

	if c.response.SearchInformation == nil {
		return nil, errors.Wrap(ErrInvalidState, "search response has no search information")
	}

	return c.response.SearchInformation, nil
}

func (c *Client) TotalNumberOfResults() (int64, error) {
	info, err := c.SearchInformation()
	if err != nil {
		return 0, errors.WithStack(err)
	}

	raw := strings.TrimSpace(info.TotalResults)
	if raw == "" {
		return 0, nil
	}

	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "could not parse total results '%s'", raw)
	}

	return total, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(&RequestError{Err: err})
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(&RequestError{Err: err})
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4e+6)) // Restrict to 4MB
		return nil, errors.WithStack(&RequestError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       body,
			Err:        err,
		})
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.WithStack(&RequestError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Err:        err,
		})
	}

	return body, nil
}

// buildQuery returns the encoded query string. The cx parameter always comes
// first; a cx entry in params replaces the configured engine id.
func buildQuery(engineID, apiKey, phrase string, params map[string]string) string {
	values := url.Values{}
	values.Set("key", apiKey)
	values.Set("q", phrase)

	for key, value := range params {
		values.Set(key, value)
	}

	cx := engineID
	if override, exists := values["cx"]; exists {
		cx = override[0]
		values.Del("cx")
	}

	return "cx=" + url.QueryEscape(cx) + "&" + values.Encode()
}

func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}

	query := u.Query()
	if query.Has("key") {
		query.Set("key", "REDACTED")
	}

	u.RawQuery = query.Encode()

	return u.String()
}

func NewClient(conf Config, funcs ...OptionFunc) *Client {
	opts := NewOptions(funcs...)

	return &Client{
		engineID:   conf.EngineID,
		apiKey:     conf.APIKey,
		apiURL:     conf.APIURL,
		httpClient: newHTTPClient(opts),
	}
}
