package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/shopspring/decimal"

	"github.com/santu/marketplace/internal/models"
	"github.com/santu/marketplace/internal/util"
)

// ProductLoader hydrates search hits from the primary store.
type ProductLoader interface {
	ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
}

type Service struct {
	ES       *elasticsearch.Client
	Index    string
	Products ProductLoader
}

type Result struct {
	Total    int64
	Products []models.Product
	Page     util.Page
}

// document is the indexed shape of a product.
type document struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId"`
	SellerID    string          `json:"sellerId"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Search runs a fuzzy match over title and description, then loads the hit
// products from the store in hit order. Hits missing from the store are
// dropped; Total still reports the index count.
func (s *Service) Search(ctx context.Context, query string, page, size int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	pg := util.Paginate(page, size)

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
		"from":    pg.From,
		"size":    pg.Size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
		s.ES.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search %s: %s", res.Status(), msg)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		ids = append(ids, h.ID)
	}
	found, err := s.Products.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load hits: %w", err)
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}

	return &Result{Total: r.Hits.Total.Value, Products: products, Page: pg}, nil
}

// IndexProducts upserts every product as a document keyed by its id and
// returns how many were written before the first failure.
func (s *Service) IndexProducts(ctx context.Context, products []models.Product) (int, error) {
	for i, p := range products {
		doc, err := json.Marshal(document{
			Title:       p.Title,
			Description: p.Description,
			CategoryID:  p.CategoryID,
			SellerID:    p.SellerID,
			Price:       p.Price,
			Available:   p.Available,
			CreatedAt:   p.CreatedAt,
		})
		if err != nil {
			return i, fmt.Errorf("encode product %s: %w", p.ID, err)
		}
		res, err := s.ES.Index(s.Index, bytes.NewReader(doc),
			s.ES.Index.WithContext(ctx),
			s.ES.Index.WithDocumentID(p.ID),
		)
		if err != nil {
			return i, fmt.Errorf("index product %s: %w", p.ID, err)
		}
		failed := res.IsError()
		status := res.Status()
		res.Body.Close()
		if failed {
			return i, fmt.Errorf("index product %s: %s", p.ID, status)
		}
	}
	return len(products), nil
}
