package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Collection.Quota)
	assert.Equal(t, []string{"Investing", "Stocks", "WallStreetBets", "Options", "GlobalMarkets"}, cfg.Collection.Subreddits)
	assert.Contains(t, cfg.Collection.Stocks, "tesla")
	assert.Equal(t, 100, cfg.Reddit.PageLimit)
	assert.Equal(t, 30*time.Second, cfg.Reddit.Timeout)
	assert.Equal(t, []string{"AAPL", "GME", "MCD", "MSFT", "NFLX", "NVDA", "TSLA"}, cfg.Dataset.Symbols)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COLLECT_QUOTA", "3")
	t.Setenv("COLLECT_SUBREDDITS", "stocks,options")
	t.Setenv("DATASET_WINDOW_START", "2020-01-01")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Collection.Quota)
	assert.Equal(t, []string{"stocks", "options"}, cfg.Collection.Subreddits)
	assert.Equal(t, "2020-01-01", cfg.Dataset.WindowStart)
}

func TestDatasetConfig_Window(t *testing.T) {
	c := DatasetConfig{WindowStart: "2018-01-01", WindowEnd: "2022-12-31"}
	w, err := c.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC), w.End)

	_, err = DatasetConfig{WindowStart: "2023-01-01", WindowEnd: "2022-12-31"}.Window()
	assert.Error(t, err)

	_, err = DatasetConfig{WindowStart: "01/01/2018", WindowEnd: "2022-12-31"}.Window()
	assert.Error(t, err)
}
