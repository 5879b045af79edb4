package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/shopease-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// ItemIndex mirrors catalog items into an Elasticsearch index.
type ItemIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewItemIndex(es *elasticsearch.Client, index string) *ItemIndex {
	return &ItemIndex{es: es, index: index}
}

var itemMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":          map[string]any{"type": "keyword"},
			"name":        map[string]any{"type": "text"},
			"description": map[string]any{"type": "text"},
			"category":    map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]any{"type": "keyword"}}},
			"price":       map[string]any{"type": "long"},
			"is_active":   map[string]any{"type": "boolean"},
			"created_at":  map[string]any{"type": "date"},
		},
	},
}

// EnsureIndex creates the index with its mapping when missing.
func (x *ItemIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	b, _ := json.Marshal(itemMapping)
	res, err = esapi.IndicesCreateRequest{Index: x.index, Body: bytes.NewReader(b)}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", x.index, res.Status())
	}
	return nil
}

func (x *ItemIndex) Index(ctx context.Context, it *entity.Item) error {
	doc := map[string]any{
		"id":          it.ID,
		"name":        it.Name,
		"description": it.Description,
		"category":    it.Category,
		"price":       it.Price,
		"is_active":   it.IsActive,
		"created_at":  it.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: x.index, DocumentID: it.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index item %s: %s", it.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over name, description and category
// restricted to active items.
func (x *ItemIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"name^2", "description", "category"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{"term": map[string]any{"is_active": true}},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search items: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
