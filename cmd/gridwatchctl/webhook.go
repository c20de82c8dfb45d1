package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridwatch/internal/modkit/module"
	alertsmod "gridwatch/internal/services/alerts/module"
)

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manages the alert provider webhook",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "register",
		Short: "Registers the public webhook URL with the alert provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := alertsmod.New(newDeps(), alertsmod.Options{})
			svc := module.MustPortsOf[alertsmod.Ports](m).Service
			res, err := svc.Register(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", res.Message, res.WebhookURL)
			return nil
		},
	})
	return cmd
}
