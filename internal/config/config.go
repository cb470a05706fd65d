package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultFeedPageSize    = 5
	defaultCommentPageSize = 10
	defaultRequestTimeout  = time.Second * 15
	defaultCredentialKey   = "userToken"
)

type Config struct {
	APIOrigin       string
	CredentialKey   string
	StateDir        string
	FeedPageSize    int
	CommentPageSize int
	RequestTimeout  time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		APIOrigin:       viper.GetString("api.origin"),
		CredentialKey:   viper.GetString("api.credential_key"),
		StateDir:        viper.GetString("app.state_dir"),
		FeedPageSize:    viper.GetInt("app.feed_page_size"),
		CommentPageSize: viper.GetInt("app.comment_page_size"),
		RequestTimeout:  viper.GetDuration("api.request_timeout"),
	}

	if origin := os.Getenv("FLOWFEED_API_ORIGIN"); origin != "" {
		cfg.APIOrigin = origin
	}

	if cfg.CredentialKey == "" {
		cfg.CredentialKey = defaultCredentialKey
	}
	if cfg.FeedPageSize <= 0 {
		cfg.FeedPageSize = defaultFeedPageSize
	}
	if cfg.CommentPageSize <= 0 {
		cfg.CommentPageSize = defaultCommentPageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.StateDir = filepath.Join(home, ".flowfeed")
	}

	return cfg, nil
}
