package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hirevox/hirevox/internal/cache"
	"github.com/hirevox/hirevox/internal/config"
	"github.com/hirevox/hirevox/internal/generator"
	"github.com/hirevox/hirevox/internal/interview"
	"github.com/hirevox/hirevox/internal/llm"
	"github.com/hirevox/hirevox/internal/store"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start an interactive mock interview",
	Long: `Starts a mock technical interview on the terminal. Type your answers;
the interviewer asks follow-up questions.

Commands inside the session:
  /reset    clear the conversation and start over
  /stats    show response-cache statistics
  /quit     end the interview`,
	RunE: runInterview,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slots, err := store.Open(cfg.DBPath, logger.With("component", "store"))
	if err != nil {
		return fmt.Errorf("opening slot store: %w", err)
	}
	defer func() {
		if cerr := slots.Close(); cerr != nil {
			logger.Warn("closing slot store", "error", cerr)
		}
	}()

	responses, err := cache.New(cache.Config{
		MaxSize:      cfg.MaxCacheSize,
		KeyPrefixLen: cfg.KeyPrefixLen,
		Store:        slots,
		Logger:       logger.With("component", "cache"),
	})
	if err != nil {
		return fmt.Errorf("creating response cache: %w", err)
	}

	g, modelName, err := llm.Setup(ctx, llm.SetupConfig{
		Provider:   cfg.Provider,
		ModelName:  cfg.ModelName,
		OllamaHost: cfg.OllamaHost,
		Logger:     logger.With("component", "llm"),
	})
	if err != nil {
		return fmt.Errorf("initializing generation provider: %w", err)
	}

	model, err := llm.New(llm.Config{
		Genkit:    g,
		ModelName: modelName,
		Logger:    logger.With("component", "llm"),
	})
	if err != nil {
		return fmt.Errorf("creating model client: %w", err)
	}

	gen, err := generator.New(generator.Config{
		Model:  model,
		Logger: logger.With("component", "generator"),
		Retry: generator.RetryConfig{
			MaxAttempts:     cfg.MaxRetries,
			BaseTemperature: cfg.BaseTemperature,
			TemperatureStep: cfg.TemperatureStep,
		},
		Gates: generator.GateConfig{
			MinLength:        cfg.MinResponseLength,
			MaxLength:        cfg.MaxResponseLength,
			OverlapThreshold: cfg.OverlapThreshold,
		},
		Sampling: generator.SamplingParams{
			MaxNewTokens: cfg.MaxNewTokens,
			TopK:         cfg.TopK,
			TopP:         cfg.TopP,
		},
	})
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	session, err := interview.NewSession(ctx, interview.SessionConfig{
		Generator: gen,
		Cache:     responses,
		Logger:    logger.With("component", "session"),
	})
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	defer session.Close()

	fmt.Println("Interview started. Introduce yourself; /quit to end.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			fmt.Println("Interview ended.")
			return nil
		case "/reset":
			session.Reset()
			fmt.Println("Conversation cleared.")
			continue
		case "/stats":
			printStats(session.CacheStats())
			continue
		}

		response, err := session.Respond(ctx, line)
		if err != nil {
			switch {
			case errors.Is(err, interview.ErrBusy):
				fmt.Println("(still thinking, please wait)")
			case errors.Is(err, interview.ErrClosed), errors.Is(err, generator.ErrModelNotReady):
				return err
			default:
				logger.Error("responding to utterance", "error", err)
				fmt.Println("(something went wrong, try again)")
			}
			continue
		}

		fmt.Printf("interviewer> %s\n\n", response)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Println("\nInterview ended.")
	return nil
}

func printStats(s cache.Stats) {
	fmt.Printf("cache: %d entries, %d hits, %d misses, hit rate %s\n",
		s.Size, s.Hits, s.Misses, s.HitRate)
}
