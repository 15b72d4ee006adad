// Package config loads run configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"reddit-sentiment-lab/internal/domain"
)

// Config is the full process configuration.
type Config struct {
	App        AppConfig
	Reddit     RedditConfig
	Collection CollectionConfig
	Dataset    DatasetConfig
	Storage    StorageConfig
}

type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"reddit-sentiment-lab"`
	Env         string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

type RedditConfig struct {
	BaseURL   string        `envconfig:"REDDIT_BASE_URL" default:"https://www.reddit.com"`
	UserAgent string        `envconfig:"REDDIT_USER_AGENT" default:"Mozilla/5.0"`
	PageLimit int           `envconfig:"REDDIT_PAGE_LIMIT" default:"100"`
	RPS       float64       `envconfig:"REDDIT_RPS" default:"1"`
	Burst     int           `envconfig:"REDDIT_BURST" default:"1"`
	Timeout   time.Duration `envconfig:"REDDIT_TIMEOUT" default:"30s"`
}

// CollectionConfig mirrors the fixed lists the collection scripts carried inline.
type CollectionConfig struct {
	Subreddits []string `envconfig:"COLLECT_SUBREDDITS" default:"Investing,Stocks,WallStreetBets,Options,GlobalMarkets"`
	Stocks     []string `envconfig:"COLLECT_STOCKS" default:"tesla,apple,amazon,google,microsoft,facebook,nvidia,netflix,twitter,shopify,ibm,oracle,intel,amd,salesforce,paypal,adobe,zoom,snap,spotify,uber,lyft,airbnb,square,baidu,alibaba,tencent,cisco,hp,dell,roku,qualcomm,baba,lg,t-mobile,morgan,wells"`
	Quota      int      `envconfig:"COLLECT_QUOTA" default:"15"`
	Mode       string   `envconfig:"COLLECT_MODE" default:"listing"` // listing | search
	Policy     string   `envconfig:"COLLECT_POLICY" default:"label"`
}

type DatasetConfig struct {
	DataDir     string   `envconfig:"DATASET_DATA_DIR" default:"data"`
	OutputDir   string   `envconfig:"DATASET_OUTPUT_DIR" default:"all_avg_ratio"`
	Symbols     []string `envconfig:"DATASET_SYMBOLS" default:"AAPL,GME,MCD,MSFT,NFLX,NVDA,TSLA"`
	WindowStart string   `envconfig:"DATASET_WINDOW_START" default:"2018-01-01"`
	WindowEnd   string   `envconfig:"DATASET_WINDOW_END" default:"2022-12-31"`
	Workers     int      `envconfig:"DATASET_WORKERS" default:"0"` // 0 = runtime.NumCPU()
}

// Window parses the configured analysis window.
func (c DatasetConfig) Window() (domain.DateWindow, error) {
	start, err := time.Parse(time.DateOnly, c.WindowStart)
	if err != nil {
		return domain.DateWindow{}, fmt.Errorf("parse window start %q: %w", c.WindowStart, err)
	}
	end, err := time.Parse(time.DateOnly, c.WindowEnd)
	if err != nil {
		return domain.DateWindow{}, fmt.Errorf("parse window end %q: %w", c.WindowEnd, err)
	}
	w := domain.NewDateWindow(start, end)
	if !w.Valid() {
		return domain.DateWindow{}, fmt.Errorf("window start %s after end %s", c.WindowStart, c.WindowEnd)
	}
	return w, nil
}

// StorageConfig holds optional persistence targets. Empty DSNs disable the store.
type StorageConfig struct {
	PostgresDSN      string `envconfig:"POSTGRES_DSN"`
	PostgresMaxConns int32  `envconfig:"POSTGRES_MAX_CONNS" default:"4"`
	ClickHouseDSN    string `envconfig:"CLICKHOUSE_DSN"`
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	return &cfg, nil
}
