package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Beka01247/brewline/internal/parser"
	"github.com/Beka01247/brewline/internal/store/mongo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newImportMenuCmd(v *viper.Viper) *cobra.Command {
	var spreadsheetID, sheetRange string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-menu",
		Short: "Import menu items from a Google Sheets spreadsheet",
		Long: `import-menu reads the menu spreadsheet synchronously and upserts every row
by title. Use the API's /menu/import endpoint for the queued variant.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.GoogleCredentials == "" {
				return errors.New("google-credentials-path is required")
			}

			creds, err := os.ReadFile(cfg.GoogleCredentials)
			if err != nil {
				return fmt.Errorf("failed to read credentials: %w", err)
			}

			sheets, err := parser.New(parser.Config{CredentialsJSON: creds})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			items, err := sheets.ParseMenu(ctx, spreadsheetID, sheetRange)
			if err != nil && len(items) == 0 {
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

			if dryRun {
				for _, item := range items {
					fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-40s R%.2f\n", item.Category, item.Title, item.Price)
				}
				return nil
			}

			storage, _, err := openStorage(v)
			if err != nil {
				return err
			}
			defer storage.Close(context.Background())

			imported, err := mongo.NewMenuRepository(storage.Database()).UpsertByTitle(ctx, items)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d menu items\n", imported)
			return nil
		},
	}

	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "spreadsheet ID")
	cmd.Flags().StringVar(&sheetRange, "range", parser.DefaultRange, "sheet range to read")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the parsed items without writing them")
	cmd.MarkFlagRequired("spreadsheet")

	return cmd
}
