// Package archive ships settled rounds to Elasticsearch for analytics.
// Archiving is best effort and sits outside the settlement transaction:
// the ledger stays the source of truth.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/kopeyka/casino/pkg/entities"
)

// Config holds connection options for the Elasticsearch archiver
type Config struct {
	URL         string
	Username    string
	Password    string
	IndexPrefix string
}

// esRound is the round document indexed into Elasticsearch
type esRound struct {
	RoundID   string    `json:"round_id"`
	UserID    string    `json:"user_id"`
	GameType  string    `json:"game_type"`
	BetAmount int64     `json:"bet_amount"`
	WinAmount int64     `json:"win_amount"`
	Result    string    `json:"result"`
	SettledAt time.Time `json:"settled_at"`
}

// Archiver indexes settled rounds into a per-prefix rounds index
type Archiver struct {
	client *elasticsearch.Client
	index  string
}

// NewArchiver creates an Elasticsearch client and verifies the cluster is
// reachable
func NewArchiver(config Config) (*Archiver, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
	}
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	prefix := config.IndexPrefix
	if prefix == "" {
		prefix = "kopeyka"
	}

	res, err := client.Ping()
	if err != nil {
		return nil, fmt.Errorf("error pinging Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch ping failed: %s", res.String())
	}

	return &Archiver{
		client: client,
		index:  prefix + "-rounds",
	}, nil
}

// IndexRound indexes one settled round document, keyed by the history
// record id so retries never duplicate
func (a *Archiver) IndexRound(ctx context.Context, record *entities.HistoryRecord) error {
	doc := esRound{
		RoundID:   record.ID,
		UserID:    record.UserID,
		GameType:  string(record.GameType),
		BetAmount: record.BetAmount,
		WinAmount: record.WinAmount,
		Result:    string(record.Result),
		SettledAt: record.Timestamp,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding round document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      a.index,
		DocumentID: record.ID,
		Body:       bytes.NewReader(data),
	}

	res, err := req.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("error indexing round: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing round: %s", res.String())
	}
	return nil
}
