package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spigell/resume-ranker/internal/ai"
	"github.com/spigell/resume-ranker/internal/ai/extractive"
	"github.com/spigell/resume-ranker/internal/ai/gemini"
	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/pipeline"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShow      = "Show ranking"
	PromptDump      = "Dump ranking to file"
	PromptDocuments = "Report by extraction status"
	PromptExit      = "Exit"

	outputText = "text"
	outputJSON = "json"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShow, PromptDump, PromptDocuments, PromptExit},
}

var rankOpts requestOptions

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank resumes against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankOpts.Job, "job", "", "job description text")
	rankCmd.Flags().StringVar(&rankOpts.JobFile, "job-file", "", "file with the job description (- for stdin)")
	rankCmd.Flags().StringSliceVarP(&rankOpts.Resumes, "resume", "r", nil, "resume file (pdf or docx), may be repeated")
	rankCmd.Flags().StringVarP(&rankOpts.PastedFile, "pasted-file", "p", "", "text file with resumes separated by --- lines (- for stdin)")
	rankCmd.Flags().StringVar(&rankOpts.RequestFile, "request", "", "json file describing the whole request")
	rankCmd.Flags().IntP("top", "n", 10, "how many candidates to show")
	rankCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	rankCmd.Flags().Bool("no-insights", false, "skip generating fit insights")
	rankCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu after ranking")

	viper.BindPFlag("ranking.top", rankCmd.Flags().Lookup("top"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.AI == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the resume-ranker", zap.String("version", version))

	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	output, _ := cmd.Flags().GetString("output")
	if output != outputText && output != outputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}

	req, top, err := buildRequest(rankOpts, cmd.InOrStdin())
	if err != nil {
		logger.Fatal("building the request", zap.Error(err))
	}
	if top > 0 && !cmd.Flags().Changed("top") {
		config.Ranking.Top = top
	}

	var explainer ai.Explainer
	if noInsights, _ := cmd.Flags().GetBool("no-insights"); !noInsights {
		explainer, err = newExplainer(ctx, config.AI, logger)
		if err != nil {
			logger.Fatal("building the fit explainer", zap.Error(err))
		}
	}

	p := pipeline.New(pipeline.Config{TopN: config.Ranking.Top}, pipeline.Deps{
		Extractor: extract.New(config.Extract, logger),
		Ranker:    ranking.New(),
		Explainer: explainer,
		Logger:    logger,
	})

	result, err := p.Run(ctx, req)
	if errors.Is(err, pipeline.ErrNoResumes) {
		logger.Warn(pipeline.NoResumesWarning)
		return
	}
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	if output == outputJSON {
		if err := writeJSON(out, result); err != nil {
			logger.Fatal("writing result", zap.Error(err))
		}
		return
	}

	printRanking(out, result)

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, out, logger, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, out io.Writer, logger *zap.Logger, result *pipeline.Result) error {
	switch action {
	case PromptShow:
		printRanking(out, result)
		return nil
	case PromptDump:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptDocuments:
		pretty, _ := json.MarshalIndent(result.ReportByStatus(), "", "  ")
		logger.Info(string(pretty), zap.Int("documents count", len(result.Documents)))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func printRanking(out io.Writer, result *pipeline.Result) {
	fmt.Fprint(out, result.Render())

	for _, doc := range result.Problems() {
		line := fmt.Sprintf("Warning: %s: %s", doc.Name, doc.Status)
		if doc.Error != "" {
			line += " (" + doc.Error + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func writeJSON(out io.Writer, result *pipeline.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func newExplainer(ctx context.Context, cfg *AIConfig, base *zap.Logger) (ai.Explainer, error) {
	generator, err := newGenerator(ctx, cfg, base)
	if err != nil {
		return nil, err
	}

	explainerLogger := logger.WithGeneratorFields(base, generator.Provider(), generator.Model())

	return ai.NewExplainer(generator, cfg.Config, explainerLogger)
}

func newGenerator(ctx context.Context, cfg *AIConfig, base *zap.Logger) (ai.Generator, error) {
	switch provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider {
	case "", gemini.Provider:
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (or set ai.api-key-file, or use --no-insights / ai.provider=extractive)", err)
		}

		genLogger := logger.WithGeneratorFields(base, gemini.Provider, cfg.Model).With(
			zap.Int("max_attempts", cfg.MaxRetries),
		)

		return gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	case extractive.Provider:
		return extractive.New(), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func redacted(config *Config) *Config {
	if config == nil || config.AI == nil {
		return config
	}
	copied := *config
	aiCfg := *config.AI
	if aiCfg.APIKey != "" {
		aiCfg.APIKey = "***"
	}
	copied.AI = &aiCfg
	return &copied
}
