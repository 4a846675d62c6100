package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"docsummary/internal/domain"
	"docsummary/internal/streamclient"
)

var (
	serverURL    string
	modelChoice  string
	modelID      string
	customPrompt string
	rawOutput    bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "summarize <file>",
	Short: "Summarize a document with a running docsummary server",
	Long: `Uploads a PDF or text document to a docsummary server and renders the
progress stream while the summary is generated.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
	RunE: runSummarize,
}

func init() {
	_ = godotenv.Load()

	defaultServer := os.Getenv("DOCSUMMARY_SERVER_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8000"
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServer, "server base URL")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().StringVarP(&modelChoice, "model", "m", string(domain.DefaultModelChoice), "backend: gemini or claude")
	rootCmd.Flags().StringVar(&modelID, "model-id", "", "vendor model identifier, e.g. gemini-1.5-pro")
	rootCmd.Flags().StringVarP(&customPrompt, "prompt", "p", "", "instruction replacing the default one")
	rootCmd.Flags().BoolVar(&rawOutput, "raw", false, "print the raw NDJSON events")

	rootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	client := streamclient.New(serverURL, nil)
	r := newRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), rawOutput)
	defer r.Close()

	final, err := client.Summarize(cmd.Context(), streamclient.SummarizeInput{
		FileName:     filepath.Base(path),
		Data:         data,
		ModelChoice:  domain.ModelChoice(modelChoice),
		CustomPrompt: customPrompt,
		Model:        modelID,
	}, r.Handle)
	if err != nil {
		return err
	}
	if final.Status == domain.StatusError {
		return fmt.Errorf("%s: %s", final.Stage, final.Message)
	}
	return nil
}
