package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tradelog/tradelog/api"
	"github.com/tradelog/tradelog/config"
	"github.com/tradelog/tradelog/guard"
	"github.com/tradelog/tradelog/notify"
	"github.com/tradelog/tradelog/session"
)

var (
	cfgFile string
	apiURL  string

	cfg      *config.Config
	sessions *session.Store
	client   *api.Client
	gate     *guard.Guard
	out      notify.Notifier
)

var rootCmd = &cobra.Command{
	Use:   "tradelog",
	Short: "A terminal client for your stock-trading journal",
	Long: `Tradelog is a terminal client for a personal stock-trading journal backend.

It lets you:
  - Record buy/sell orders and close trades
  - Review completed trades, open positions and deposits
  - Track win rate, profit factor and holding duration
  - Keep a local snapshot so listings work offline

Credentials are stored locally and refreshed automatically when the
backend reports an expired access token.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultConfig := filepath.Join(home, ".tradelog", "config.yaml")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfig, "config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "backend base URL (overrides config)")
}

// setup wires the session store, API client and guard before any command
// runs.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	level, err := logrus.ParseLevel(levelOrInfo(cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	if err := os.MkdirAll(cfg.State.Dir, 0700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	persister, err := session.NewBolt(cfg.SessionPath())
	if err != nil {
		return err
	}
	sessions = session.NewStore(persister)
	gate = guard.New(sessions, "tradelog login")
	out = &notify.Writer{Out: os.Stdout}

	timeout, err := cfg.API.ParseTimeout()
	if err != nil {
		return fmt.Errorf("api.timeout: %w", err)
	}
	client = api.NewClient(cfg.API.BaseURL, sessions, api.WithTimeout(timeout))

	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if sessions != nil {
		return sessions.Close()
	}
	return nil
}

// requireAuth is the PreRunE hook for commands that need a session.
func requireAuth(cmd *cobra.Command, args []string) error {
	return gate.Require()
}

func levelOrInfo(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

// promptLine reads one line from stdin with a label, for values not given as
// flags.
func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
