package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Timmmy307/Gmail-unspamer/internal/config"
	"github.com/Timmmy307/Gmail-unspamer/internal/logging"
	"github.com/Timmmy307/Gmail-unspamer/internal/provider/gmail"
	"github.com/Timmmy307/Gmail-unspamer/internal/provider/openai"
	"github.com/Timmmy307/Gmail-unspamer/internal/store"
	"github.com/Timmmy307/Gmail-unspamer/internal/store/sqlite"
	"github.com/Timmmy307/Gmail-unspamer/internal/triage"
	"github.com/Timmmy307/Gmail-unspamer/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool

	// verboseFlag enables debug logging.
	verboseFlag bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "unspamer",
		Short:   "Gmail triage assistant",
		Long:    "Scans a Gmail mailbox, classifies messages with an LLM, and helps you bulk-trash the junk.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(false)
			if err != nil {
				return err
			}
			defer app.Close()

			settings, err := app.db.LoadSettings(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(app.sess, settings, app.log)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("unspamer %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newConnectCmd())
	root.AddCommand(newDisconnectCmd())
	root.AddCommand(newScanCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newSettingsCmd())
	root.AddCommand(newKeepCmd())
	root.AddCommand(newTrashCmd())
	root.AddCommand(newTrashSuggestedCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything a command needs after setup.
type app struct {
	cfg   *config.Config
	db    *sqlite.DB
	gmail *gmail.Client
	sess  *triage.Session
	log   *zap.Logger
}

func (a *app) Close() {
	a.log.Sync()
	a.db.Close()
}

// setup loads config, opens the database, and wires the session. Headless
// commands log to the console; the TUI logs to a file since it owns the
// terminal.
func setup(console bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := resolveGmailCredentials(cfg); err != nil {
		return nil, err
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	var log *zap.Logger
	if console {
		log, err = logging.NewConsole(verboseFlag || cfg.Logging.Verbose)
	} else {
		log, err = logging.NewFile(filepath.Join(dataDir, "unspamer.log"), verboseFlag || cfg.Logging.Verbose)
	}
	if err != nil {
		return nil, err
	}

	db, err := sqlite.New(filepath.Join(dataDir, "unspamer.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	tokenStore := store.NewKeyringTokenStore()
	mailbox := gmail.New(cfg.Account.ID, tokenStore)
	classifier := openai.New(cfg.OpenAIKey(), cfg.OpenAI.BaseURL, log)

	return &app{
		cfg:   cfg,
		db:    db,
		gmail: mailbox,
		sess:  triage.NewSession(mailbox, classifier, db, log),
		log:   log,
	}, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveGmailCredentials sets Gmail OAuth credentials using the first
// available source: config file, then environment variables.
func resolveGmailCredentials(cfg *config.Config) error {
	if cfg.Gmail.ClientID != "" && cfg.Gmail.ClientSecret != "" {
		gmail.SetCredentials(cfg.Gmail.ClientID, cfg.Gmail.ClientSecret)
		return nil
	}

	clientID := os.Getenv("GMAIL_CLIENT_ID")
	clientSecret := os.Getenv("GMAIL_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		gmail.SetCredentials(clientID, clientSecret)
		return nil
	}

	return gmail.EnsureCredentials()
}
