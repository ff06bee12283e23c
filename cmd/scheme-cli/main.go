// Package main provides an interactive console for the scheme engine.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agrimitra-ai/scheme-engine/internal/config"
	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/dialog"
	"github.com/agrimitra-ai/scheme-engine/internal/index"
	"github.com/agrimitra-ai/scheme-engine/internal/observability"
	"github.com/agrimitra-ai/scheme-engine/pkg/engine"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	schemeColor  = color.New(color.FgGreen, color.Bold)
	detailColor  = color.New(color.FgWhite)
	promptColor  = color.New(color.FgYellow)
	warnColor    = color.New(color.FgRed)
	likelyColor  = color.New(color.FgGreen)
	unclearColor = color.New(color.FgYellow)
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var stateHint string
	var topK int

	root := &cobra.Command{
		Use:   "scheme-cli",
		Short: "Discover government agricultural schemes",
		Long:  "Interactive console for discovering Indian government agricultural schemes and checking eligibility.",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file")
	root.PersistentFlags().StringVar(&stateHint, "state", "", "applicant state override")

	askCmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Run a single scheme discovery query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeSrc, err := buildEngine(cfgPath)
			if err != nil {
				return err
			}
			if closeSrc != nil {
				defer closeSrc()
			}
			resp, err := eng.Process(context.Background(), engine.Request{
				Text:      strings.Join(args, " "),
				StateHint: stateHint,
				TopK:      topK,
			})
			if err != nil {
				return err
			}
			printResponse(resp)
			return nil
		},
	}
	askCmd.Flags().IntVar(&topK, "top", 5, "number of schemes to return")

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive discovery session",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeSrc, err := buildEngine(cfgPath)
			if err != nil {
				return err
			}
			if closeSrc != nil {
				defer closeSrc()
			}
			return runChat(eng, stateHint)
		},
	}

	topicsCmd := &cobra.Command{
		Use:   "topics [state]",
		Short: "List scheme sub-categories for a state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, closeSrc, err := buildEngine(cfgPath)
			if err != nil {
				return err
			}
			if closeSrc != nil {
				defer closeSrc()
			}
			resp, err := eng.Process(context.Background(), engine.Request{
				Text: fmt.Sprintf("schemes in %s", args[0]),
			})
			if err != nil {
				return err
			}
			printResponse(resp)
			return nil
		},
	}

	root.AddCommand(askCmd, chatCmd, topicsCmd)

	if err := root.Execute(); err != nil {
		warnColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildEngine assembles the engine from config. The returned close
// function is nil for the JSON source.
func buildEngine(cfgPath string) (*engine.Engine, func() error, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       "warn",
		Format:      "console",
		ServiceName: "scheme-cli",
	})

	var src corpus.Source
	var closeSrc func() error
	if cfg.Corpus.Source == "sqlite" {
		sqliteSrc, db, err := corpus.OpenSQLiteSource(
			cfg.Corpus.SQLite.Path,
			cfg.Corpus.SQLite.Table,
			cfg.Corpus.SQLite.MaxOpenConns,
		)
		if err != nil {
			return nil, nil, err
		}
		src = sqliteSrc
		closeSrc = db.Close
	} else {
		src = corpus.NewJSONSource(cfg.Corpus.JSON.Path)
	}

	eng := engine.New(src,
		engine.WithLogger(logger),
		engine.WithIndexOptions(index.Options{
			MaxVocabSize: cfg.Retrieval.MaxVocabSize,
			MinDocFreq:   cfg.Retrieval.MinDocFreq,
		}),
	)
	return eng, closeSrc, nil
}

// runChat loops over stdin turns, echoing the context marker from the
// previous turn so the stateless engine can pick up where it left off.
func runChat(eng *engine.Engine, stateHint string) error {
	headerColor.Println("Scheme discovery console. Type 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	marker := ""
	for {
		promptColor.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		text := line
		if marker != "" {
			text = line + " " + marker
		}

		resp, err := eng.Process(context.Background(), engine.Request{
			Text:      text,
			StateHint: stateHint,
		})
		if err != nil {
			return err
		}

		printResponse(resp)
		marker = nextMarker(resp)
	}
	return scanner.Err()
}

// nextMarker picks the marker the next turn should echo.
func nextMarker(resp *engine.Response) string {
	switch {
	case resp.ScopeChoice != nil:
		return resp.ScopeChoice.Marker
	case resp.TopicList != nil:
		return resp.TopicList.Marker
	default:
		return ""
	}
}

func printResponse(resp *engine.Response) {
	if resp.Message != "" {
		promptColor.Println(resp.Message)
	}

	if resp.TopicList != nil {
		headerColor.Printf("Scheme sub-categories for %s:\n", resp.TopicList.State)
		for i, t := range resp.TopicList.Topics {
			detailColor.Printf("  %2d. %s (%d schemes, %s)\n",
				i+1, t.Name, t.Count, strings.Join(t.SchemeTypes, "/"))
		}
		promptColor.Println("Reply with a number or a sub-category name.")
		return
	}

	if resp.ScopeChoice != nil {
		headerColor.Printf("'%s' is available as both State and Central schemes.\n", resp.ScopeChoice.Topic)
		for i, opt := range resp.ScopeChoice.Options {
			detailColor.Printf("  %d. %s: %d schemes\n", i+1, opt.Type, opt.Count)
		}
		promptColor.Println("Reply with 'State schemes' or 'Central schemes'.")
		return
	}

	for i, s := range resp.Schemes {
		schemeColor.Printf("%d. %s", i+1, s.SchemeName)
		if s.ShortName != "" {
			schemeColor.Printf(" (%s)", s.ShortName)
		}
		fmt.Println()
		detailColor.Printf("   Type: %s", s.SchemeType)
		if s.SchemeType == "State" {
			detailColor.Printf(" (%s)", s.State)
		}
		fmt.Println()
		if s.BriefDescription != "" {
			detailColor.Printf("   %s\n", s.BriefDescription)
		}
		printStatus(s)
		for _, ref := range s.References {
			detailColor.Printf("   Link: %s (%s)\n", ref.Title, ref.URL)
		}
		fmt.Println()
	}

	if len(resp.Questions) > 0 {
		headerColor.Println("To check your eligibility, please answer:")
		for _, q := range resp.Questions {
			detailColor.Printf("  - %s\n", q)
		}
	}
}

func printStatus(s dialog.SchemeSummary) {
	label := fmt.Sprintf("   Eligibility: %s", s.EligibilityStatus)
	switch s.EligibilityStatus {
	case "likely", "possible":
		likelyColor.Println(label)
	case "unlikely":
		warnColor.Println(label)
	default:
		unclearColor.Println(label)
	}
	for _, reason := range s.EligibilityReasons {
		detailColor.Printf("     - %s\n", reason)
	}
}
