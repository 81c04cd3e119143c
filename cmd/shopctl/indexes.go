package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newIndexesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes the API relies on",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, _, err := openStorage(v)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			defer storage.Close(context.Background())

			if err := storage.CreateIndexes(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "indexes created")
			return nil
		},
	}
}
