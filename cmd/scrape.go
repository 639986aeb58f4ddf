package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/brogergvhs/skillquiz/internal/config"
	"github.com/brogergvhs/skillquiz/internal/export"
	"github.com/brogergvhs/skillquiz/internal/harvester"
	"github.com/brogergvhs/skillquiz/internal/pages"
	"github.com/brogergvhs/skillquiz/internal/providers"
	"github.com/brogergvhs/skillquiz/internal/providers/browser"
	"github.com/brogergvhs/skillquiz/internal/providers/static"
	"github.com/brogergvhs/skillquiz/internal/quiz"
	"github.com/brogergvhs/skillquiz/internal/ui"
	"github.com/brogergvhs/skillquiz/internal/util"
)

var (
	// selection
	flagURL   string
	flagIndex string
	flagQuiz  string
	flagRange string
	flagList  string
	flagPick  bool

	// runtime
	flagOutput      string
	flagFormat      string
	flagWorkers     int
	flagRenderer    string
	flagSelector    string
	flagBrowserPath string
	flagTimeout     int
	flagStdout      bool
	flagDryRun      bool
	flagSkipBroken  bool

	// headers/auth
	flagCookie           string
	flagCookieFile       string
	flagUserAgent        string
	flagCloudflareBypass bool
)

func init() {
	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Extract quiz questions from one page or every quiz linked from an index. Uses the defaults from the selected config, overwritten by CLI flags",
		RunE:  runScrape,
	}

	// selection
	scrapeCmd.Flags().StringVar(&flagURL, "url", "", "quiz page URL (must end in .md)")
	scrapeCmd.Flags().StringVar(&flagIndex, "index", "", "index page URL linking to quiz pages")
	scrapeCmd.Flags().StringVar(&flagQuiz, "quiz", "", "single quiz from the index by position or label (e.g. 3 or go)")
	scrapeCmd.Flags().StringVar(&flagRange, "range", "", "range of quizzes from the index by position (e.g. 5-12)")
	scrapeCmd.Flags().StringVar(&flagList, "list", "", "specific quiz positions from the index (e.g. 1,3,5)")
	scrapeCmd.Flags().BoolVar(&flagPick, "pick", false, "choose the quiz interactively from the index")

	// runtime
	scrapeCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for exported files")
	scrapeCmd.Flags().StringVar(&flagFormat, "format", "", "output format: ndjson or json")
	scrapeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "pages processed in parallel")
	scrapeCmd.Flags().StringVar(&flagRenderer, "renderer", "", "how pages are obtained: browser (headless Chrome, default) or http (already rendered HTML)")
	scrapeCmd.Flags().StringVar(&flagSelector, "selector", "", "CSS selector of the quiz container")
	scrapeCmd.Flags().StringVar(&flagBrowserPath, "browser-path", "", "Chrome/Chromium executable for the browser renderer")
	scrapeCmd.Flags().IntVar(&flagTimeout, "timeout", 0, "per-request timeout in seconds")
	scrapeCmd.Flags().BoolVar(&flagStdout, "stdout", false, "write records to stdout instead of files")
	scrapeCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show which pages would be scraped, don't scrape")
	scrapeCmd.Flags().BoolVar(&flagSkipBroken, "skip-broken", false, "exit successfully even if some pages failed")

	// headers/auth
	scrapeCmd.Flags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	scrapeCmd.Flags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	scrapeCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	scrapeCmd.Flags().BoolVar(&flagCloudflareBypass, "cloudflare-bypass", false, "use browser-like TLS and headers for HTTP requests")

	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:      flagIgnoreConfig,
		Debug:             flagDebug,
		Output:            flagOutput,
		Format:            flagFormat,
		Workers:           flagWorkers,
		Renderer:          flagRenderer,
		ContainerSelector: flagSelector,
		BrowserPath:       flagBrowserPath,
		TimeoutSeconds:    flagTimeout,
		DefaultURL:        flagURL,
		DefaultIndex:      flagIndex,
		DefaultRange:      flagRange,
		DefaultList:       flagList,
		Cookie:            flagCookie,
		CookieFile:        flagCookieFile,
		UserAgent:         flagUserAgent,
		CloudflareBypass:  flagCloudflareBypass,
		SkipBroken:        flagSkipBroken,
	})
	if err != nil {
		return err
	}

	// Records own stdout with --stdout; everything else goes to stderr.
	info := cmd.OutOrStdout()
	if flagStdout {
		info = cmd.ErrOrStderr()
	}

	logSvc := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Fprintf(info, "Config file: %s\n", usedPath)
	}
	if cfg.Debug {
		fmt.Fprintln(info, "Full config:")
		cfg.Print(info)
		fmt.Fprintln(info)
	}

	format, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	pageURL, indexURL := cfg.DefaultURL, cfg.DefaultIndex
	if cmd.Flags().Changed("index") && !cmd.Flags().Changed("url") {
		pageURL = ""
	}
	if pageURL == "" && indexURL == "" {
		return fmt.Errorf("missing --url or --index and no default_url/default_index in config")
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:          timeout,
		UserAgent:        util.PickUserAgent(cfg.UserAgent),
		Cookie:           cfg.Cookie,
		CookieFile:       cfg.CookieFile,
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      logSvc,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	scr := static.NewScraper(client, cfg.ContainerSelector, logSvc)

	var selected []pages.Page
	if pageURL != "" {
		if err := pages.ValidateURL(pageURL); err != nil {
			return err
		}
		selected = []pages.Page{pages.New(pageURL)}
	} else {
		selected, err = selectFromIndex(ctx, info, scr, indexURL, cfg)
		if err != nil {
			return err
		}
	}

	if len(selected) == 0 {
		return fmt.Errorf("no quizzes selected")
	}

	if flagDryRun {
		fmt.Fprintf(info, "Dry-run: %s selected.\n\n", util.Plural(int64(len(selected)), "page"))
		for i, p := range selected {
			out := "(stdout)"
			if !flagStdout {
				out = p.OutputPath(cfg.Output, format.Ext())
			}
			fmt.Fprintf(info, "%3d) %s\n    %s\n    -> %s\n", i+1, p.DisplayName(), p.URL, out)
		}
		return nil
	}

	var src providers.Source = scr
	var rnd *browser.Renderer
	if cfg.Renderer == config.RendererBrowser {
		rnd = browser.New(browser.Options{
			ExecutablePath:    cfg.BrowserPath,
			ContainerSelector: cfg.ContainerSelector,
			Timeout:           timeout,
			InstallDriver:     true,
			DebugLogger:       logSvc,
		})
		defer func() {
			if err := rnd.Close(); err != nil {
				logSvc.Debugf("Closing browser: %v", err)
			}
		}()
		src = rnd
	}

	outputDir := ""
	if !flagStdout {
		outputDir = cfg.Output
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("cannot create output folder: %w", err)
		}
		util.SetupInterruptHandler(outputDir, func() {
			cancel()
			if rnd != nil {
				_ = rnd.Close()
			}
		})
	}

	var progressOut io.Writer = os.Stdout
	if flagStdout {
		progressOut = os.Stderr
	}
	pm := ui.NewProgressManager(progressOut)

	stats := &ui.Stats{}
	h := harvester.New(src, logSvc, stats, harvester.Options{
		OutputDir:  outputDir,
		Format:     format,
		Workers:    cfg.Workers,
		SkipBroken: cfg.SkipBroken,
		Attempts:   2,
	})

	start := time.Now()
	results, runErr := h.Run(ctx, selected, pm.Register("Quizzes"))
	pm.Close()

	if flagStdout {
		sets := make([][]quiz.Question, 0, len(results))
		for _, r := range results {
			if r.Err == nil {
				sets = append(sets, r.Questions)
			}
		}
		if err := export.Write(cmd.OutOrStdout(), format, export.Merge(sets, false)); err != nil {
			return err
		}
	}

	printSummary(info, results, stats, time.Since(start))

	if !flagStdout {
		util.RemoveIfEmpty(outputDir)
	}

	return runErr
}

func selectFromIndex(ctx context.Context, info io.Writer, idx providers.Indexer, indexURL string, cfg *config.Config) ([]pages.Page, error) {
	all, err := idx.ListQuizzes(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no quiz pages found on %s", indexURL)
	}

	if flagQuiz == "" && cfg.DefaultRange == "" && cfg.DefaultList == "" && !flagPick {
		fmt.Fprintf(info, "Found %s on the index.\n\n", util.Plural(int64(len(all)), "quiz page"))
	}

	var chosen []providers.QuizPage
	switch {
	case flagPick:
		p, err := pickQuiz(all)
		if err != nil {
			return nil, err
		}
		chosen = []providers.QuizPage{p}
	case flagQuiz != "":
		chosen = providers.Filter(all, flagQuiz, "", "")
		if len(chosen) == 0 {
			return nil, fmt.Errorf("quiz '%s' not found", flagQuiz)
		}
	default:
		chosen = providers.Filter(all, "", cfg.DefaultRange, cfg.DefaultList)
	}

	out := make([]pages.Page, len(chosen))
	for i, q := range chosen {
		out[i] = pages.Page{QuizPage: q}
	}
	return out, nil
}

func pickQuiz(all []providers.QuizPage) (providers.QuizPage, error) {
	prompt := promptui.Select{
		Label: "Select quiz",
		Items: all,
		Size:  15,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Label | cyan }}  {{ .Title | faint }}",
			Inactive: "  {{ .Label }}  {{ .Title | faint }}",
			Selected: "Quiz: {{ .Label | green }}",
		},
		Searcher: func(input string, i int) bool {
			q := all[i]
			in := strings.ToLower(strings.TrimSpace(input))
			return strings.Contains(strings.ToLower(q.Label), in) ||
				strings.Contains(strings.ToLower(q.Title), in)
		},
	}

	i, _, err := prompt.Run()
	if err != nil {
		return providers.QuizPage{}, fmt.Errorf("selection cancelled")
	}
	return all[i], nil
}

func printSummary(w io.Writer, results []harvester.Result, stats *ui.Stats, elapsed time.Duration) {
	fmt.Fprintln(w)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "FAIL %s: %v\n", r.Page.DisplayName(), r.Err)
		case r.Path != "":
			fmt.Fprintf(w, "OK   %s -> %s (%s)\n", r.Page.DisplayName(), r.Path, util.Plural(int64(len(r.Questions)), "question"))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scrape Summary:")
	fmt.Fprintf(w, "Pages:     %d\n", stats.TotalPages.Load())
	fmt.Fprintf(w, "Failed:    %d\n", stats.FailedPages.Load())
	fmt.Fprintf(w, "Questions: %d\n", stats.TotalQuestions.Load())
	fmt.Fprintf(w, "Data:      %s\n", util.Human(stats.TotalBytes.Load()))
	fmt.Fprintf(w, "Time:      %s\n", elapsed.Round(time.Second))
}
