package schema

import (
	"fmt"

	"github.com/bornholm/googlesearch/internal/config"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func Schema() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the configuration file",
		Action: func(cliCtx *cli.Context) error {
			data, err := config.Schema()
			if err != nil {
				return errors.Wrapf(err, "failed to generate configuration schema")
			}

			if _, err := fmt.Fprintln(cliCtx.App.Writer, string(data)); err != nil {
				return errors.WithStack(err)
			}

			return nil
		},
	}
}
