package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/risk-dashboard/internal/dashboard"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List the client ids known to the scoring API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env := initEnv(cfg)
		return runClients(cmd.Context(), cmd.OutOrStdout(), env.Cache)
	},
}

func runClients(ctx context.Context, w io.Writer, lister dashboard.ClientLister) error {
	ids, err := lister.ClientIDs(ctx)
	if err != nil {
		return eris.Wrap(err, "list clients")
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return eris.Wrap(err, "write client id")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(clientsCmd)
}
