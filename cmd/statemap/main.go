package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"statemap/internal/config"
	"statemap/internal/dataset"
	"statemap/internal/logger"
	"statemap/internal/tui"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"   env:"STATEMAP_CONFIG"  description:"Path to configuration file" default:"config.yaml"`
	URL        string        `short:"u" long:"url"      env:"STATEMAP_URL"     description:"GeoJSON dataset URL or local path"`
	CacheFile  string        `long:"cache"              env:"STATEMAP_CACHE"   description:"Where to keep the downloaded dataset"`
	NoCache    bool          `long:"no-cache"           description:"Do not read or write the dataset cache"`
	Refresh    bool          `short:"f" long:"refresh"  description:"Download the dataset even if cached"`
	Timeout    time.Duration `long:"timeout"            env:"STATEMAP_TIMEOUT" description:"Dataset download timeout"`
	Select     string        `short:"s" long:"select"   description:"State to select on startup"`
}

func main() {
	_ = godotenv.Load(".env")

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "statemap: %v\n", err)
		os.Exit(1)
	}
}

// run owns the log file for the lifetime of the program.
func run(opts Options) error {
	closer, err := opts.Logger.Setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
	}
	defer closer.Close()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return fmt.Errorf("config: %w", err)
	}
	if opts.URL != "" {
		cfg.Dataset.URL = opts.URL
	}
	if opts.CacheFile != "" {
		cfg.Dataset.Cache = opts.CacheFile
	}
	if opts.Timeout > 0 {
		cfg.Dataset.Timeout = opts.Timeout
	}

	src := dataset.NewSource(cfg.Dataset.URL, cfg.Dataset.Cache, cfg.Dataset.Timeout)
	src.Refresh = opts.Refresh
	src.NoCache = opts.NoCache

	log.Info().
		Str("url", cfg.Dataset.URL).
		Str("cache", cfg.Dataset.Cache).
		Dur("timeout", cfg.Dataset.Timeout).
		Msg("Starting statemap")

	m := tui.New(cfg, src).SelectOnLoad(opts.Select)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		log.Error().Err(err).Msg("Program failed")
		return err
	}
	return nil
}
