// Package search indexes and queries products in Elasticsearch.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v9"
)

type Config struct {
	URL      string
	Username string
	Password string
}

// NewClient connects and verifies the cluster answers before returning.
func NewClient(ctx context.Context, cfg Config, l *slog.Logger) (*elasticsearch.Client, error) {
	l.Info("es_connect", "url", cfg.URL, "user", cfg.Username)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}

	l.Info("es_connected", "url", cfg.URL)
	return client, nil
}
