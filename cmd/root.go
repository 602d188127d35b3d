package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spigell/resume-ranker/internal/ai"
	"github.com/spigell/resume-ranker/internal/extract"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "resume-ranker"
	envPrefix = "RESUME_RANKER"
)

type Config struct {
	AI      *AIConfig      `mapstructure:"ai"`
	Ranking *RankingConfig `mapstructure:"ranking"`
	Extract extract.Config `mapstructure:"extract"`
}

type AIConfig struct {
	ai.Config `mapstructure:",squash"`

	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type RankingConfig struct {
	Top int `mapstructure:"top"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-ranker ranks resumes against a job description and explains the best matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ranker.yaml in current or home directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.model", "")
	viper.SetDefault("ai.api-key", "")
	viper.SetDefault("ai.api-key-file", "")
	viper.SetDefault("ai.max-retries", 1)
	viper.SetDefault("ai.truncation", string(ai.TruncateCombined))
	viper.SetDefault("ai.prompt-limit", ai.DefaultPromptLimit)
	viper.SetDefault("ai.min-length", ai.DefaultMinLength)
	viper.SetDefault("ai.max-length", ai.DefaultMaxLength)
	viper.SetDefault("ai.max-log-length", 200)
	viper.SetDefault("ranking.top", 10)
	viper.SetDefault("extract.workers", 1)
}

func initConfig() {
	// Only the rank command needs configuration.
	if rankCmd.CalledAs() == "" {
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// The config file is optional unless asked for explicitly.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
