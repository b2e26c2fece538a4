package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
)

// EntriesMapping is the index mapping used by EnsureIndex at startup.
const EntriesMapping = `{
  "mappings": {
    "properties": {
      "id":                {"type": "long"},
      "user_id":           {"type": "long"},
      "description":       {"type": "text"},
      "month":             {"type": "integer"},
      "year":              {"type": "integer"},
      "amount":            {"type": "scaled_float", "scaling_factor": 100},
      "type":              {"type": "keyword"},
      "status":            {"type": "keyword"},
      "registration_date": {"type": "date", "format": "yyyy-MM-dd"}
    }
  }
}`

type entryDoc struct {
	ID               int64  `json:"id"`
	UserID           int64  `json:"user_id"`
	Description      string `json:"description"`
	Month            int    `json:"month"`
	Year             int    `json:"year"`
	Amount           string `json:"amount"`
	Type             string `json:"type"`
	Status           string `json:"status"`
	RegistrationDate string `json:"registration_date,omitempty"`
}

func toDoc(e *entity.Entry) entryDoc {
	d := entryDoc{
		ID:          e.ID,
		UserID:      e.UserID(),
		Description: e.Description,
		Month:       e.Month,
		Year:        e.Year,
		Amount:      e.Amount.StringFixed(2),
		Type:        string(e.Type),
		Status:      string(e.Status),
	}
	if !e.RegisteredAt.IsZero() {
		d.RegistrationDate = e.RegisteredAt.Format("2006-01-02")
	}
	return d
}

// EntryIndex stores entries in one Elasticsearch index.
type EntryIndex struct {
	ES      *elasticsearch.Client
	Name    string
	Timeout time.Duration
}

func NewEntryIndex(es *elasticsearch.Client, index string) *EntryIndex {
	return &EntryIndex{ES: es, Name: index, Timeout: 3 * time.Second}
}

func (x *EntryIndex) Index(ctx context.Context, e *entity.Entry) error {
	b, err := json.Marshal(toDoc(e))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Name,
		DocumentID: strconv.FormatInt(e.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	return x.do(ctx, req)
}

func (x *EntryIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.Name, DocumentID: strconv.FormatInt(id, 10)}
	return x.do(ctx, req)
}

// Search matches q against descriptions of the user's entries.
func (x *EntryIndex) Search(ctx context.Context, userID int64, q string, size int) ([]application.EntrySearchHit, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   []any{map[string]any{"match": map[string]any{"description": q}}},
				"filter": []any{map[string]any{"term": map[string]any{"user_id": userID}}},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Name), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", x.Name, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64  `json:"_score"`
				Source entryDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]application.EntrySearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, application.EntrySearchHit{
			ID:          h.Source.ID,
			Description: h.Source.Description,
			Month:       h.Source.Month,
			Year:        h.Source.Year,
			Amount:      h.Source.Amount,
			Type:        h.Source.Type,
			Status:      h.Source.Status,
			Score:       h.Score,
		})
	}
	return out, nil
}

func (x *EntryIndex) do(ctx context.Context, req esapi.Request) error {
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("elasticsearch %s", res.Status())
	}
	return nil
}

var _ application.EntryIndexer = (*EntryIndex)(nil)
