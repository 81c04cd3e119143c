package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Beka01247/brewline/internal/store/mongo"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type config struct {
	MongoURI          string        `mapstructure:"mongo-uri"`
	MongoDatabase     string        `mapstructure:"mongo-database"`
	MongoTimeout      time.Duration `mapstructure:"mongo-timeout"`
	GoogleCredentials string        `mapstructure:"google-credentials-path"`
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "shopctl",
		Short: "Operator tooling for the brewline ordering backend",
		Long: `shopctl prepares and inspects a brewline deployment: it creates the
MongoDB indexes, imports the menu from a spreadsheet, seeds demo data and
prints the pickup slots customers are offered.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shopctl.yaml)")
	rootCmd.PersistentFlags().String("mongo-uri", "mongodb://localhost:27017/?replicaSet=rs0", "MongoDB connection URI")
	rootCmd.PersistentFlags().String("mongo-database", "brewline", "MongoDB database name")
	rootCmd.PersistentFlags().Duration("mongo-timeout", 10*time.Second, "MongoDB connect timeout")
	rootCmd.PersistentFlags().String("google-credentials-path", "", "Google service account credentials file")

	v.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newIndexesCmd(v),
		newImportMenuCmd(v),
		newSeedCmd(v),
		newSlotsCmd(),
	)

	return rootCmd
}

// initConfig layers flags over environment (MONGO_URI, ...) over the
// optional config file.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".shopctl")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	} else if cfgFile != "" {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

func loadConfig(v *viper.Viper) (*config, error) {
	var cfg config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if cfg.MongoTimeout <= 0 {
		cfg.MongoTimeout = 10 * time.Second
	}

	return &cfg, nil
}

func openStorage(v *viper.Viper) (*mongo.Storage, *config, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, nil, err
	}

	storage, err := mongo.New(mongo.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Timeout:  cfg.MongoTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	return storage, cfg, nil
}
