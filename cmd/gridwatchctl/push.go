package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridwatch/internal/modkit/module"
	notifymod "gridwatch/internal/services/notify/module"
)

func pushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Talks to the push relay",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Sends a test notification to PUSH_REGION",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := notifymod.New(newDeps(), notifymod.Options{})
			svc := module.MustPortsOf[notifymod.Ports](m).Service
			res, err := svc.Test(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s, region %s)\n", res.Message, res.ID, res.Region)
			return nil
		},
	})
	return cmd
}
