package main

import (
	"bufio"
	"context"
	"fmt"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/lead-dorker/internal/bot"
	"github.com/maxaizer/lead-dorker/internal/clients/exa"
	"github.com/maxaizer/lead-dorker/internal/clients/gemini"
	"github.com/maxaizer/lead-dorker/internal/clients/groq"
	"github.com/maxaizer/lead-dorker/internal/config"
	"github.com/maxaizer/lead-dorker/internal/domain/errs"
	"github.com/maxaizer/lead-dorker/internal/logger"
	"github.com/maxaizer/lead-dorker/internal/metrics"
	"github.com/maxaizer/lead-dorker/internal/prompts"
	"github.com/maxaizer/lead-dorker/internal/repositories"
	"github.com/maxaizer/lead-dorker/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const promptCacheTTL = 10 * time.Minute

var errNoQuery = errors.New("no query provided")

type llmClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

func newLLMClient(ctx context.Context, cfg config.LLMConfig) (llmClient, func(), error) {

	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(ctx, cfg.APIKey, gemini.Model(cfg.Model), cfg.Temperature, cfg.MaxTokens)
		if err != nil {
			return nil, nil, err
		}
		client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		return client, func() { _ = client.Close() }, nil
	default:
		client := groq.NewClient(groq.Config{
			URL:         cfg.APIURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		})
		client.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
		return client, func() {}, nil
	}
}

func newPipeline(ctx context.Context, cfg *config.Config, dbContext *repositories.DbContext,
	bus EventBus.Bus) (*services.Pipeline, func(), error) {

	llm, closeLLM, err := newLLMClient(ctx, cfg.LLM)
	if err != nil {
		return nil, nil, errors.Wrap(err, "can't create LLM client")
	}

	searchClient := exa.NewClient(cfg.Search.APIURL, cfg.Search.APIKey, cfg.Search.Timeout)

	driver, err := services.NewSearchDriver(
		searchClient,
		repositories.NewResultsRepository(dbContext.DB),
		repositories.NewSessionsRepository(dbContext.DB),
		bus,
		services.SearchPolicy{
			WindowSize:        cfg.Search.WindowSize,
			SearchedPerWindow: cfg.Search.SearchedPerWindow,
			ResultsPerQuery:   cfg.Search.ResultsPerQuery,
			Pause:             cfg.Search.Pause,
		},
		exa.SearchParameters{
			IncludeDomains: cfg.Search.IncludeDomains,
			IncludeText:    cfg.Search.IncludeText,
			ExcludeText:    cfg.Search.ExcludeText,
			Livecrawl:      exa.Livecrawl(cfg.Search.Livecrawl),
			Category:       cfg.Search.Category,
		})
	if err != nil {
		closeLLM()
		return nil, nil, errors.Wrap(err, "can't create search driver")
	}

	loader := prompts.NewCachedLoader(prompts.NewFileLoader(cfg.Prompts.Dir), promptCacheTTL)

	pipeline := services.NewPipeline(loader, llm, driver, services.PromptFiles{
		VariableExtraction:    cfg.Prompts.VariableExtraction,
		DescriptionGeneration: cfg.Prompts.DescriptionGeneration,
		RoleList:              cfg.Prompts.RoleList,
		CompanyList:           cfg.Prompts.CompanyList,
	})
	return pipeline, closeLLM, nil
}

// readQuery prompts on out and reads one line from in. Cancelling ctx abandons the read.
func readQuery(ctx context.Context, in io.Reader, out io.Writer) (string, error) {

	_, _ = fmt.Fprint(out, "Enter your search query: ")

	type line struct {
		text string
		err  error
	}
	lines := make(chan line, 1)
	go func() {
		text, err := bufio.NewReader(in).ReadString('\n')
		if errors.Is(err, io.EOF) {
			err = nil
		}
		lines <- line{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", errs.ErrInterrupted
	case l := <-lines:
		if l.err != nil {
			return "", l.err
		}
		query := strings.TrimSpace(l.text)
		if query == "" {
			return "", errNoQuery
		}
		return query, nil
	}
}

func run(ctx context.Context, query string) error {

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Address)

	if query = strings.TrimSpace(query); query == "" {
		var err error
		if query, err = readQuery(ctx, os.Stdin, os.Stdout); err != nil {
			return err
		}
	}

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		return errors.Wrap(err, "can't create db context")
	}
	defer func() { _ = dbContext.Close() }()

	if err = dbContext.Migrate(); err != nil {
		return errors.Wrap(err, "can't migrate db context")
	}

	bus := EventBus.New()

	if cfg.Notify.Enabled() {
		if _, err = bot.NewNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID, bus); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("notifications disabled: %v", err)
		}
	}

	pipeline, closeLLM, err := newPipeline(ctx, cfg, dbContext, bus)
	if err != nil {
		return err
	}
	defer closeLLM()

	summary, err := pipeline.Run(ctx, query)
	if err != nil {
		return err
	}
	bus.WaitAsync()

	log.Infof("pipeline completed: %d queries searched, %d results saved to %s",
		summary.Outcome.QueriesSearched, summary.Outcome.TotalResults, cfg.DB.ConnectionString)
	return nil
}

func main() {

	var query string

	rootCmd := &cobra.Command{
		Use:           "leadgen",
		Short:         "Generate LinkedIn dork queries from a free-text request and store the search results",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := run(ctx, query)
			if err != nil && ctx.Err() != nil && !errors.Is(err, errs.ErrInterrupted) {
				err = errs.ErrInterrupted
			}
			return err
		},
	}
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "search query; read from stdin when omitted")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errs.ErrInterrupted) {
			_, _ = fmt.Fprintln(os.Stderr, errs.ErrInterrupted.Error())
		} else {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
