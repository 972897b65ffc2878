package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ajaypar09/Projects/internal/config"
	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/logging"
	"github.com/ajaypar09/Projects/internal/services"
)

// app carries state shared by every subcommand for one invocation
type app struct {
	configFile string
	dbPath     string
	logLevel   string

	cfg   *config.Config
	db    *gorm.DB
	store *database.Store
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cardprices",
		Short: "Store, search and estimate collectible card prices",
		Long: `cardprices keeps a local SQLite database of card prices and recent
sales imported from PriceCharting and TCGplayer exports, and can price
cards live against both services when credentials are configured.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./.cardprices.yaml or $HOME/.cardprices.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to the SQLite database file (default pokemon_cards.db)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newInitDBCmd(a),
		newImportJSONCmd(a),
		newSearchCmd(a),
		newShowCmd(a),
		newLookupCmd(a),
		newEstimateCmd(a),
	)
	return root
}

// setup loads configuration and installs the logger. Flags override config.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	logging.Configure(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}

// openStore opens and migrates the database on first use
func (a *app) openStore() (*database.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	db, err := database.Open(database.Options{Path: a.cfg.DBPath, LogLevel: a.cfg.DBLogLevel})
	if err != nil {
		return nil, err
	}
	a.db = db
	a.store = database.NewStore(db)
	return a.store, nil
}

func (a *app) cardService() (*services.CardService, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	return services.NewCardService(store, services.NewResolver(store, a.cfg.ResolverPoolLimit)), nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	a.db, a.store = nil, nil
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
