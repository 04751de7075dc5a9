// Package search keeps a typo-tolerant Meilisearch index of settlements for
// "did you mean" suggestions.
package search

import (
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/address-offers/app/models"
	"github.com/address-offers/internal/normalizer"
)

// Config of the Meilisearch connection
type Config struct {
	Host      string
	APIKey    string
	IndexName string
	Timeout   time.Duration
}

// SettlementDoc is the indexed form of a settlement
type SettlementDoc struct {
	SettlementCode string `json:"settlement_code"`
	AdminCode      string `json:"admin_code"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	District       string `json:"district"`
	Weight         int    `json:"weight"`
}

// SettlementIndex wraps the settlements index
type SettlementIndex struct {
	client    meilisearch.ServiceManager
	indexName string
	timeout   time.Duration
	logger    *zap.Logger
}

const (
	indexBatchSize   = 1000
	taskPollInterval = 250 * time.Millisecond
)

// NewSettlementIndex connects to Meilisearch and checks its health.
func NewSettlementIndex(cfg Config, logger *zap.Logger) (*SettlementIndex, error) {
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))

	health, err := client.Health()
	if err != nil {
		return nil, fmt.Errorf("failed to reach Meilisearch: %w", err)
	}
	logger.Info("Connected to Meilisearch", zap.String("status", health.Status), zap.String("index", cfg.IndexName))

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SettlementIndex{
		client:    client,
		indexName: cfg.IndexName,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

// Configure applies searchable, sortable and typo settings and waits for the task.
func (si *SettlementIndex) Configure() error {
	index := si.client.Index(si.indexName)
	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "normalized_name", "district"},
		FilterableAttributes: []string{"settlement_code", "admin_code", "district"},
		SortableAttributes:   []string{"weight", "name"},
		RankingRules:         []string{"words", "typo", "proximity", "attribute", "sort", "exactness", "weight:desc"},
		TypoTolerance: &meilisearch.TypoTolerance{
			Enabled: true,
			MinWordSizeForTypos: meilisearch.MinWordSizeForTypos{
				OneTypo:  3,
				TwoTypos: 6,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return si.wait(task.TaskUID)
}

// Seed indexes settlements in batches.
func (si *SettlementIndex) Seed(settlements []models.Settlement) (int, error) {
	index := si.client.Index(si.indexName)
	total := 0
	for start := 0; start < len(settlements); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(settlements) {
			end = len(settlements)
		}
		docs := make([]SettlementDoc, 0, end-start)
		for _, st := range settlements[start:end] {
			docs = append(docs, toDoc(st))
		}
		task, err := index.AddDocuments(docs, "settlement_code")
		if err != nil {
			return total, fmt.Errorf("failed to add documents %d-%d: %w", start, end, err)
		}
		if err := si.wait(task.TaskUID); err != nil {
			return total, err
		}
		total += len(docs)
		si.logger.Info("Indexed settlements batch", zap.Int("indexed", total), zap.Int("total", len(settlements)))
	}
	return total, nil
}

// Search runs a typo-tolerant query and decodes the hits.
func (si *SettlementIndex) Search(query string, limit int) ([]models.Settlement, error) {
	res, err := si.client.Index(si.indexName).Search(query, &meilisearch.SearchRequest{
		Limit: int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("settlement search failed: %w", err)
	}
	return parseHits(res.Hits), nil
}

// Suggest returns settlements close to query, best first.
func (si *SettlementIndex) Suggest(query string, limit int) ([]models.Settlement, error) {
	// over-fetch, Meilisearch relevance is re-ranked by string similarity
	hits, err := si.Search(query, limit*3)
	if err != nil {
		return nil, err
	}
	return RankSuggestions(query, hits, limit), nil
}

// Healthy reports whether the server answers.
func (si *SettlementIndex) Healthy() bool {
	return si.client.IsHealthy()
}

func (si *SettlementIndex) wait(taskUID int64) error {
	deadline := time.Now().Add(si.timeout)
	for {
		task, err := si.client.GetTask(taskUID)
		if err != nil {
			return fmt.Errorf("failed to check task %d: %w", taskUID, err)
		}
		switch task.Status {
		case meilisearch.TaskStatusSucceeded:
			return nil
		case meilisearch.TaskStatusFailed, meilisearch.TaskStatusCanceled:
			return fmt.Errorf("task %d %s: %v", taskUID, task.Status, task.Error)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("task %d still %s after %s", taskUID, task.Status, si.timeout)
		}
		time.Sleep(taskPollInterval)
	}
}

func toDoc(st models.Settlement) SettlementDoc {
	norm := st.NormalizedName
	if norm == "" {
		norm = normalizer.Normalize(st.Name)
	}
	return SettlementDoc{
		SettlementCode: st.Code,
		AdminCode:      st.AdminCode,
		Name:           st.Name,
		NormalizedName: norm,
		District:       st.District,
		Weight:         st.Weight,
	}
}

func parseHits(hits []interface{}) []models.Settlement {
	out := make([]models.Settlement, 0, len(hits))
	for _, hit := range hits {
		m, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		st := models.Settlement{}
		if v, ok := m["settlement_code"].(string); ok {
			st.Code = v
		}
		if v, ok := m["admin_code"].(string); ok {
			st.AdminCode = v
		}
		if v, ok := m["name"].(string); ok {
			st.Name = v
		}
		if v, ok := m["normalized_name"].(string); ok {
			st.NormalizedName = v
		}
		if v, ok := m["district"].(string); ok {
			st.District = v
		}
		if v, ok := m["weight"].(float64); ok {
			st.Weight = int(v)
		}
		if st.Code == "" {
			continue
		}
		out = append(out, st)
	}
	return out
}
