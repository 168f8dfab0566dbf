package main

import (
	"fmt"
	"os"

	"juspatria-backend/app"
	"juspatria-backend/config"
	"juspatria-backend/logger"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	plain   bool

	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "juspatria",
	Short: "JusPátria - interpretação de textos legais brasileiros no terminal",
	Long: `juspatria analyses Brazilian statutes with Gemini and prints the result
as provision, interpretation and STF/STJ case-law blocks.

History is shared with the server when HISTORY_BACKEND is postgres or redis.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()
		if !verbose {
			log = logger.NewNop()
			return nil
		}
		var err error
		log, err = logger.New("development")
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "print markdown without terminal styling")

	rootCmd.AddCommand(interpretCmd, exampleCmd, historyCmd)
}

// openApp wires the services; uploads are never used from the terminal.
// History commands pass generation=false so they run without an API key.
func openApp(cmd *cobra.Command, generation bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if warning := memoryHistoryWarning(cfg); warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), warning)
	}
	return app.New(cmd.Context(), cfg, log, app.Options{Generation: generation})
}

// memoryHistoryWarning tells the user that nothing outlives this process
// when history is kept in memory.
func memoryHistoryWarning(cfg config.Config) string {
	if cfg.HistoryBackend != config.HistoryBackendMemory {
		return ""
	}
	return "aviso: HISTORY_BACKEND=memory, o histórico não é mantido entre execuções; use postgres ou redis"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
