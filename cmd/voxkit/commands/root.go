// Package commands implements the voxkit command tree.
package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxkit/voxkit/pkg/cli"
	"github.com/voxkit/voxkit/pkg/core"
)

var (
	dataDir    string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "voxkit",
	Short: "Voice session and command resolution toolkit",
	Long: `voxkit — enroll voices, manage sessions, and resolve spoken commands.

Commands:
  enroll    Enroll a new user (voice embedding or password)
  login     Authenticate and open a session
  logout    Revoke a session token
  resolve   Resolve recognized text under a session token
  listen    Resolve utterances from stdin until EOF
  suggest   Suggest grammar patterns for a partial phrase
  users     List and delete enrolled users
  sessions  Session maintenance
  grammar   Inspect and validate grammars
  version   Version information

Examples:
  voxkit enroll alice embedding.json
  voxkit login embedding.json
  voxkit resolve <token> "open chrome"
  voxkit grammar check custom.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.voxkit)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "JSON output")
}

// testCoreOverride is set during tests to share an in-memory Core
// across commands.
var testCoreOverride *core.Core

// openCore loads the configuration and assembles the runtime.
func openCore() (*core.Core, func(), error) {
	if testCoreOverride != nil {
		return testCoreOverride, func() {}, nil
	}

	cfg, err := cli.LoadConfig(dataDir)
	if err != nil {
		return nil, nil, err
	}
	c, err := core.Open(core.Config{
		DataDir:        cfg.Dir(),
		AuthMode:       cfg.AuthMode,
		EmbeddingDim:   cfg.EmbeddingDim,
		VoiceThreshold: cfg.VoiceThreshold,
		MatchThreshold: cfg.MatchThreshold,
		SessionTTL:     time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		GrammarFile:    cfg.GrammarFile,
	})
	if err != nil {
		return nil, nil, err
	}
	return c, func() { c.Close() }, nil
}

// readEmbedding parses a JSON float array from a file, or stdin when
// path is "-" or empty.
func readEmbedding(path string) ([]float32, error) {
	data, err := cli.ReadAllOrFile(path, os.Stdin)
	if err != nil {
		return nil, err
	}
	var v []float32
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("embedding must be a JSON number array: %w", err)
	}
	return v, nil
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}
