package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/avklimov/url-shortener/internal/config"
	"github.com/avklimov/url-shortener/internal/geo"
	"github.com/avklimov/url-shortener/internal/logging"
	"github.com/avklimov/url-shortener/internal/models"
	"github.com/avklimov/url-shortener/internal/repository"
	"github.com/avklimov/url-shortener/internal/service"
	"go.uber.org/zap"
)

const usage = `Usage: shortener <command> [flags]

Commands:
  create   -url <url> [-validity <minutes>] [-code <shortcode>]
  resolve  -code <shortcode> [-source <referrer>]
  list     [-expired]
  stats    -code <shortcode>
  logs     [-level INFO|WARN|ERROR|DEBUG] [-limit <n>] [-clear]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Загрузка конфига
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Подключение к хранилищу
	storage, err := newStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to init storage", zap.Error(err))
	}
	defer storage.Close()

	// Инициализация журнала, реестра и рекордера кликов
	sink := logging.NewSink(storage, logger, cfg.Log.MaxEntries)
	urlRepo := repository.NewURLRepository(storage)
	urlService := service.NewURLService(urlRepo, cfg.App.BaseURL, sink)
	locator := geo.NewClient(cfg.Geo.APIURL, cfg.Geo.Timeout)
	recorder := service.NewClickRecorder(urlService, locator, sink)

	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "create":
		cmdErr = runCreate(ctx, urlService, os.Args[2:])
	case "resolve":
		cmdErr = runResolve(ctx, recorder, os.Args[2:])
	case "list":
		cmdErr = runList(urlService, os.Args[2:])
	case "stats":
		cmdErr = runStats(urlService, os.Args[2:])
	case "logs":
		cmdErr = runLogs(sink, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", cmdErr)
		os.Exit(1)
	}
}

// newStorage выбирает бэкенд хранилища по конфигу
func newStorage(cfg *config.Config) (repository.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return repository.NewRedisStorage(cfg.Redis)
	case config.BackendPostgres:
		return repository.NewPostgresStorage(cfg.DB)
	case config.BackendFile:
		return repository.NewFileStorage(cfg.Storage.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

func runCreate(ctx context.Context, urls *service.URLService, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	originalURL := fs.String("url", "", "destination URL")
	validity := fs.Int("validity", 0, "validity in minutes (default 30)")
	code := fs.String("code", "", "custom shortcode (3-10 alphanumeric)")
	fs.Parse(args)

	created, err := urls.Create(ctx, &models.CreateURLInput{
		OriginalURL:     *originalURL,
		ValidityMinutes: *validity,
		CustomShortcode: *code,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Short URL:  %s\n", created.ShortURL)
	fmt.Printf("Shortcode:  %s\n", created.Shortcode)
	fmt.Printf("Expires at: %s\n", created.ExpiresAt.Format(time.RFC3339))
	return nil
}

func runResolve(ctx context.Context, recorder *service.ClickRecorder, args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	code := fs.String("code", "", "shortcode to resolve")
	source := fs.String("source", "", "referrer URL (empty = Direct)")
	fs.Parse(args)

	originalURL, err := recorder.RecordClick(ctx, *code, *source)
	if err != nil {
		return err
	}

	fmt.Println(originalURL)
	return nil
}

func runList(urls *service.URLService, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	expired := fs.Bool("expired", false, "list expired instead of active")
	fs.Parse(args)

	var records []models.ShortenedURL
	if *expired {
		records = urls.ListExpired()
	} else {
		records = urls.ListActive()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SHORTCODE\tORIGINAL URL\tEXPIRES AT\tCLICKS")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			r.Shortcode, r.OriginalURL, r.ExpiresAt.Format(time.RFC3339), len(r.Clicks))
	}
	return w.Flush()
}

func runStats(urls *service.URLService, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	code := fs.String("code", "", "shortcode to inspect")
	fs.Parse(args)

	record, err := urls.Lookup(*code)
	if err != nil {
		return err
	}

	fmt.Printf("Shortcode:    %s\n", record.Shortcode)
	fmt.Printf("Original URL: %s\n", record.OriginalURL)
	fmt.Printf("Created at:   %s\n", record.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Expires at:   %s\n", record.ExpiresAt.Format(time.RFC3339))
	fmt.Printf("Custom code:  %v\n", record.IsCustom)
	fmt.Printf("Clicks:       %d\n", len(record.Clicks))

	if len(record.Clicks) == 0 {
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tSOURCE\tCOUNTRY\tCITY\tREGION")
	for _, c := range record.Clicks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.Timestamp.Format(time.RFC3339), c.Source,
			c.Location.Country, c.Location.City, c.Location.Region)
	}
	return w.Flush()
}

func runLogs(sink *logging.Sink, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ExitOnError)
	level := fs.String("level", "", "filter by level (INFO, WARN, ERROR, DEBUG)")
	limit := fs.Int("limit", 20, "show last N entries (0 = all)")
	clear := fs.Bool("clear", false, "clear the log")
	fs.Parse(args)

	if *clear {
		return sink.Clear()
	}

	entries := sink.GetLogs(logging.Level(*level), *limit)
	for _, e := range entries {
		fmt.Printf("[%s] %s %s", e.Level, e.Timestamp.Format(time.RFC3339), e.Message)
		if len(e.Data) > 0 {
			fmt.Printf(" %v", e.Data)
		}
		fmt.Println()
	}
	return nil
}
