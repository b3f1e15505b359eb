package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

const maxBodyBytes = 8 << 20

// Catalog fetches and normalizes the products of one category.
//
// FetchAll never fails: transport errors, non-2xx responses and malformed
// payloads are logged and reported as an empty catalog.
type Catalog struct {
	category      string
	url           string
	envelopeField string
	client        *http.Client
	ttl           time.Duration
	now           func() time.Time

	mu        sync.Mutex
	last      []models.Product
	fetchedAt time.Time
	fetched   bool
}

type Option func(*Catalog)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Catalog) { c.client = client }
}

func WithEnvelopeField(field string) Option {
	return func(c *Catalog) {
		if field != "" {
			c.envelopeField = field
		}
	}
}

// WithCacheTTL sets how long FindByID may reuse the last fetched sequence.
// Zero means always refetch.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Catalog) { c.ttl = ttl }
}

func withClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// New builds the catalog for category. urlTemplate may contain
// "{category}", e.g. "http://localhost:8000/json/{category}.json".
func New(category, urlTemplate string, opts ...Option) *Catalog {
	c := &Catalog{
		category:      category,
		url:           ResourceURL(urlTemplate, category),
		envelopeField: DefaultEnvelopeField,
		client:        &http.Client{Timeout: 10 * time.Second},
		ttl:           5 * time.Minute,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResourceURL expands the category into the template
func ResourceURL(template, category string) string {
	return strings.ReplaceAll(template, "{category}", url.PathEscape(category))
}

func (c *Catalog) Category() string { return c.category }

func (c *Catalog) URL() string { return c.url }

// FetchAll issues one request for the category resource and returns its
// products tagged with the category.
func (c *Catalog) FetchAll(ctx context.Context) []models.Product {
	log := zap.S().With("category", c.category, "url", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		log.Errorw("Error building catalog request", "error", err)
		return []models.Product{}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Errorw("Error fetching product data", "error", err)
		return []models.Product{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Errorw("Bad response fetching product data", "status", resp.StatusCode)
		return []models.Product{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Errorw("Error reading product data", "error", err)
		return []models.Product{}
	}

	products, err := Decode(body, c.envelopeField)
	if err != nil {
		log.Errorw("Error parsing product data", "error", err)
		return []models.Product{}
	}
	for i := range products {
		products[i].Category = c.category
	}
	log.Debugw("Loaded products", "count", len(products))

	c.mu.Lock()
	c.last = products
	c.fetchedAt = c.now()
	c.fetched = true
	c.mu.Unlock()

	return clone(products)
}

// FindByID scans the catalog for id, reusing the last fetch while it is
// fresh. The bool is false when the product does not exist.
func (c *Catalog) FindByID(ctx context.Context, id string) (models.Product, bool) {
	products, ok := c.cached()
	if !ok {
		products = c.FetchAll(ctx)
	}
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	zap.S().Infow("Product not found", "category", c.category, "id", id)
	return models.Product{}, false
}

func (c *Catalog) cached() ([]models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fetched || c.ttl <= 0 || c.now().Sub(c.fetchedAt) > c.ttl {
		return nil, false
	}
	return clone(c.last), true
}

func clone(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
