package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/smelnik/career-assistant/internal/document"
	"github.com/smelnik/career-assistant/internal/keywords"
	"github.com/smelnik/career-assistant/internal/logger"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var screenPrompt = promptui.Select{
	Label: "Ask the AI for a screening report as well?",
	Items: []string{PromptYes, PromptNo},
}

var matchCmd = &cobra.Command{
	Use:   "match <resume-file> <job-description-file>",
	Short: "Score a resume against a job description offline",
	Long: "Score a resume against a job description using keyword matching only.\n" +
		"Resume and job description are plain text files, a resume may also be a PDF.",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		match(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("offline", "o", false, "skip the AI screening prompt")
}

func match(cmd *cobra.Command, args []string) {
	_ = godotenv.Load()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	resume, err := readDocument(args[0], logger)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	job, err := readDocument(args[1], logger)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	report := keywords.Analyze(resume, job)

	pretty, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatal("encoding the report", zap.Error(err))
	}
	fmt.Println(string(pretty))

	if cmd.Flag("offline").Value.String() == "true" {
		return
	}

	_, action, err := screenPrompt.Run()
	if err != nil || action != PromptYes {
		return
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}

	ctx := context.Background()

	advisor, err := newAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the AI advisor",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	payload, err := advisor.Screen(ctx, resume, job)
	if err != nil {
		logger.Fatal("screening the resume", zap.Error(err))
	}

	pretty, err = json.MarshalIndent(payload, "", "  ")
	if err != nil {
		logger.Fatal("encoding the screening report", zap.Error(err))
	}
	fmt.Println(string(pretty))
}

// readDocument loads a resume or job description from disk. PDFs go through
// text extraction, anything else is read as plain text.
func readDocument(path string, logger *zap.Logger) (string, error) {
	if document.IsPDFFilename(path) {
		text := document.ExtractText(path, logger)
		if text == "" {
			return "", fmt.Errorf("could not extract text from %q", path)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
