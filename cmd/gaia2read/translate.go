package main

import (
	"errors"
	"fmt"

	"github.com/jkim117/gaia2read"
	"github.com/jkim117/gaia2read/model"
	"github.com/spf13/cobra"
)

func newTranslateCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "translate --from SCHEME --to SCHEME ID...",
		Short: "Translate identifiers between Gaia, 2MASS and HAT",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromScheme, err := model.ParseIDScheme(from)
			if err != nil {
				return usageErr("invalid ID type %s", from)
			}
			toScheme, err := model.ParseIDScheme(to)
			if err != nil {
				return usageErr("invalid ID type %s", to)
			}

			ctx := cmd.Context()
			c, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer c.Close()
			defer a.reportStats(cmd.ErrOrStderr(), c)

			out := cmd.OutOrStdout()
			missing := 0
			for _, text := range args {
				id, err := fromScheme.Parse(text)
				if err != nil {
					return fmt.Errorf("%w: %w", gaia2read.ErrInvalidIdentifier, err)
				}
				other, err := c.Translate(ctx, id, fromScheme, toScheme)
				if errors.Is(err, gaia2read.ErrIdentifierNotFound) {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: not found\n", fromScheme.Label(), text)
					missing++
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s\n", fromScheme.Format(id), toScheme.Format(other))
			}
			if missing > 0 {
				return &exitError{code: 1, err: fmt.Errorf("%d of %d identifiers not found", missing, len(args))}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "GAIA", "scheme of the input IDs: GAIA, TMASS or HAT")
	cmd.Flags().StringVar(&to, "to", "GAIA", "scheme of the output IDs: GAIA, TMASS or HAT")
	return cmd
}
