package main

import (
	"context"

	cfg "github.com/pascaldisse/mxo-decompiled/common/config"
	"github.com/pascaldisse/mxo-decompiled/nav/app"

	"github.com/spf13/cobra"
)

func NavCmd() *cobra.Command {
	var configFile string
	app.APPVERSION = VERSION
	c := &cobra.Command{
		Use:   "nav",
		Short: "nav mesh server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InitConfig(configFile)
			return app.Run(context.Background())
		},
	}
	c.Flags().StringVar(&configFile, "config", "application.toml", "config file")
	return c
}
