package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	"github.com/bornholm/googlesearch/pkg/search/google"
	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
	FormatRaw      Format = "raw"
)

var Formats = []Format{FormatText, FormatMarkdown, FormatYAML, FormatJSON, FormatRaw}

var ErrUnknownFormat = errors.New("unknown format")

// Extension returns the file extension associated with the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatYAML:
		return ".yml"
	case FormatJSON, FormatRaw:
		return ".json"
	default:
		return ".txt"
	}
}

func Render(w io.Writer, format Format, res *google.Response) error {
	var err error

	switch format {
	case FormatText:
		err = Text(w, res)
	case FormatMarkdown:
		err = Markdown(w, res)
	case FormatYAML:
		err = YAML(w, res)
	case FormatJSON:
		err = JSON(w, res)
	case FormatRaw:
		err = Raw(w, res)
	default:
		return errors.Wrapf(ErrUnknownFormat, "'%s'", format)
	}

	return errors.WithStack(err)
}

// Text writes a plain text listing of the response items. HTML markup of the
// titles and snippets is stripped.
func Text(w io.Writer, res *google.Response) error {
	var sb strings.Builder

	i := 0
	for _, item := range res.Items {
		if item == nil {
			continue
		}

		title, err := textOf(item.HtmlTitle, item.Title)
		if err != nil {
			return errors.WithStack(err)
		}

		snippet, err := textOf(item.HtmlSnippet, item.Snippet)
		if err != nil {
			return errors.WithStack(err)
		}

		i++
		sb.WriteString(fmt.Sprintf("%d. %s\n", i, title))
		sb.WriteString(fmt.Sprintf("   %s\n", item.Link))
		if snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", snippet))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(summary(res))
	sb.WriteString("\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func Markdown(w io.Writer, res *google.Response) error {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)

	var sb strings.Builder

	sb.WriteString("# Search results\n\n")

	i := 0
	for _, item := range res.Items {
		if item == nil {
			continue
		}

		title, err := textOf(item.HtmlTitle, item.Title)
		if err != nil {
			return errors.WithStack(err)
		}

		i++
		sb.WriteString(fmt.Sprintf("## %d. [%s](%s)\n\n", i, title, item.Link))

		snippet := item.Snippet
		if item.HtmlSnippet != "" {
			markdown, err := conv.ConvertString(item.HtmlSnippet)
			if err != nil {
				return errors.Wrapf(err, "could not convert snippet of '%s'", item.Link)
			}

			snippet = markdown
		}

		if snippet = strings.TrimSpace(snippet); snippet != "" {
			sb.WriteString(snippet)
			sb.WriteString("\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("_%s_\n", summary(res)))

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// YAML writes the response using the API field names.
func YAML(w io.Writer, res *google.Response) error {
	data, err := json.Marshal(res.Search)
	if err != nil {
		return errors.WithStack(err)
	}

	// JSON is valid YAML, decoding it as a node keeps the key order
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return errors.WithStack(err)
	}

	resetStyle(&node)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(&node); err != nil {
		return errors.WithStack(err)
	}

	if err := encoder.Close(); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func JSON(w io.Writer, res *google.Response) error {
	data, err := json.MarshalIndent(res.Search, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}

	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// Raw writes the response body as it was received.
func Raw(w io.Writer, res *google.Response) error {
	raw := res.Raw()
	if raw == nil {
		raw = []byte("{}")
	}

	if _, err := w.Write(raw); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// resetStyle drops the flow and quoting styles inherited from the JSON
// source so the encoder emits block YAML.
func resetStyle(node *yaml.Node) {
	node.Style = 0

	for _, child := range node.Content {
		resetStyle(child)
	}
}

func summary(res *google.Response) string {
	info := res.SearchInformation
	if info == nil {
		return fmt.Sprintf("%d results", len(res.Items))
	}

	total := info.FormattedTotalResults
	if total == "" {
		total = info.TotalResults
	}

	if info.FormattedSearchTime == "" {
		return fmt.Sprintf("About %s results", total)
	}

	return fmt.Sprintf("About %s results (%s seconds)", total, info.FormattedSearchTime)
}

func textOf(html string, fallback string) (string, error) {
	if html == "" {
		return strings.TrimSpace(fallback), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", errors.WithStack(err)
	}

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
