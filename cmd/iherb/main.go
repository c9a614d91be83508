package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iherb-tools/iherb-cli/internal/browser"
	"github.com/iherb-tools/iherb-cli/internal/config"
	"github.com/iherb-tools/iherb-cli/internal/output"
	"github.com/iherb-tools/iherb-cli/internal/scraper"
)

const usage = `Usage: iherb <command> [flags]

Commands:
  search <query>      Search for products
  product <id|url>    Get detailed product information

Global flags:
  -country string     Country subdomain (e.g. us, ch, de)
  -currency string    Fallback currency when detection fails (e.g. USD, CHF)
  -no-cache           Bypass cache reads and fetch fresh data
  -delay int          Delay between requests in milliseconds (default 2000)
  -debug              Verbose logging and a headed browser window
`

type globalFlags struct {
	country  string
	currency string
	noCache  bool
	delay    int
	debug    bool
}

func registerGlobalFlags(fs *flag.FlagSet, g *globalFlags) {
	fs.StringVar(&g.country, "country", "", "country subdomain (e.g. us, ch, de)")
	fs.StringVar(&g.currency, "currency", "", "fallback currency (e.g. USD, CHF, EUR)")
	fs.BoolVar(&g.noCache, "no-cache", false, "bypass cache reads and fetch fresh data")
	fs.IntVar(&g.delay, "delay", -1, "delay between requests in milliseconds")
	fs.BoolVar(&g.debug, "debug", false, "verbose logging and a headed browser window")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		// The browser subprocess is reaped by the OS on interrupt.
		fmt.Fprintln(os.Stderr, "\nInterrupted.")
		os.Exit(130)
	}()

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	switch command {
	case "search":
		return runSearch(args)
	case "product":
		return runProduct(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runSearch(args []string) error {
	var g globalFlags
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	registerGlobalFlags(fs, &g)
	limit := fs.Int("limit", 10, "max number of results to return")
	sortFlag := fs.String("sort", "relevance", "sort order: relevance, price-asc, price-desc, rating, best-selling")
	category := fs.String("category", "", "filter by category (e.g. supplements, vitamins)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("search requires exactly one query argument")
	}

	sort, err := scraper.ParseSortOrder(*sortFlag)
	if err != nil {
		return err
	}

	cfg, launcher, err := setup(g)
	if err != nil {
		return err
	}
	defer closeLauncher(launcher)

	client := scraper.NewClient(cfg, launcher)
	result, err := client.Search(context.Background(), fs.Arg(0), *limit, sort, *category)
	if err != nil {
		return err
	}

	fmt.Print(output.FormatSearchResults(result))
	return nil
}

func runProduct(args []string) error {
	var g globalFlags
	fs := flag.NewFlagSet("product", flag.ContinueOnError)
	registerGlobalFlags(fs, &g)
	sectionFlag := fs.String("section", "", "only show one section: overview, description, nutrition, ingredients, suggested-use, warnings, reviews")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("product requires exactly one id or URL argument")
	}

	var section output.Section
	if *sectionFlag != "" {
		var err error
		if section, err = output.ParseSection(*sectionFlag); err != nil {
			return err
		}
	}

	cfg, launcher, err := setup(g)
	if err != nil {
		return err
	}
	defer closeLauncher(launcher)

	client := scraper.NewClient(cfg, launcher)
	product, err := client.Product(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Print(output.FormatProductDetail(product, section))
	return nil
}

func setup(g globalFlags) (*config.Config, *browser.Launcher, error) {
	level := slog.LevelWarn
	if g.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	overrides := config.Overrides{
		NoCache: g.noCache,
		Debug:   g.debug,
	}
	if g.country != "" {
		overrides.Country = &g.country
	}
	if g.currency != "" {
		overrides.Currency = &g.currency
	}
	if g.delay >= 0 {
		overrides.DelayMS = &g.delay
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, nil, err
	}

	launcher := browser.NewLauncher(&browser.Options{
		ExecutablePath: browser.ResolveExecutable(cfg.BrowserPath),
		Headed:         cfg.Debug,
	})
	return cfg, launcher, nil
}

func closeLauncher(launcher *browser.Launcher) {
	if err := launcher.Close(); err != nil {
		slog.Warn("failed to close browser", "error", err)
	}
}
