package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/smelnik/career-assistant/internal/ai"
	"github.com/smelnik/career-assistant/internal/ai/gemini"
	"github.com/smelnik/career-assistant/internal/classifier"
	"github.com/smelnik/career-assistant/internal/logger"
	"github.com/smelnik/career-assistant/internal/secrets"
	"github.com/smelnik/career-assistant/internal/server"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultPort            = 5000
	defaultShutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the career-assistant HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "address to listen on. Default is all interfaces.")
	serveCmd.Flags().IntP("port", "p", defaultPort, "port to listen on")
	serveCmd.Flags().String("upload-dir", "", "directory for temporary resume uploads. Default is the system temp directory.")

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.upload-dir", serveCmd.Flags().Lookup("upload-dir"))
}

// serve is the main command for the service.
func serve(_ *cobra.Command) {
	ctx := context.Background()

	// Local development convenience, a missing .env file is not an error.
	_ = godotenv.Load()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil {
		config = &Config{}
	}

	logger.Info("starting the career-assistant", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	advisor, err := newAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the AI advisor",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	jobClassifier, err := newClassifier(config.Classifier, logger)
	if err != nil {
		logger.Fatal(
			"building the job classifier",
			zap.Error(err),
			zap.String("hint", "set HF_API_TOKEN, HF_TOKEN_FILE or the 'classifier.token-file' key in the configuration file"),
		)
	}

	srv, err := server.New(advisor, jobClassifier, logger, serverConfig(config.Server))
	if err != nil {
		logger.Fatal("building the server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		logger.Fatal("server stopped", zap.Error(err))
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("reason", "signal received"))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Fatal("graceful shutdown failed", zap.Error(err))
		}
	}
}

func serverConfig(cfg *ServerConfig) *server.Config {
	if cfg == nil {
		cfg = &ServerConfig{}
	}

	port := cfg.Port
	if port == 0 {
		port = viper.GetInt("server.port")
	}
	if port == 0 {
		port = defaultPort
	}

	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}

	return &server.Config{
		Host:      cfg.Host,
		Port:      port,
		UploadDir: uploadDir,
	}
}

func newAdvisor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Advisor, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAdvisor(generator, logger, cfg.Gemini.MaxLogLength), nil
}

func newClassifier(cfg *ClassifierConfig, logger *zap.Logger) (*classifier.Client, error) {
	if cfg == nil {
		cfg = &ClassifierConfig{}
	}

	tokenFile := strings.TrimSpace(cfg.TokenFile)
	if tokenFile == "" {
		tokenFile = strings.TrimSpace(viper.GetString("classifier.token-file"))
	}

	token, err := secrets.Load(secrets.Source{
		Name: "hugging face api token",
		File: tokenFile,
		Env:  "HF_API_TOKEN",
	})
	if err != nil {
		return nil, err
	}

	return classifier.New(token, cfg.Model, cfg.MaxRetries, logger), nil
}
