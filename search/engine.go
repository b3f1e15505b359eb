package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/chibuezemicahe/wdd330-sleepoutside/catalog"
	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrProductNotFound = errors.New("product not found")
)

// Catalog is the part of catalog.Catalog the engine depends on
type Catalog interface {
	Category() string
	FetchAll(ctx context.Context) []models.Product
	FindByID(ctx context.Context, id string) (models.Product, bool)
}

// CartAdder receives products resolved by AddToCart
type CartAdder interface {
	Add(ctx context.Context, sess models.Session, product models.Product) (models.CartLineItem, error)
}

var _ Catalog = (*catalog.Catalog)(nil)

// Engine aggregates several category catalogs into one searchable index
type Engine struct {
	catalogs   []Catalog
	byCategory map[string]Catalog
	cart       CartAdder
	lang       language.Tag

	mu    sync.RWMutex
	index []models.Product
}

// NewEngine indexes the given catalogs in the order they are passed
func NewEngine(cart CartAdder, catalogs ...Catalog) *Engine {
	e := &Engine{
		catalogs:   catalogs,
		byCategory: make(map[string]Catalog, len(catalogs)),
		cart:       cart,
		lang:       language.English,
	}
	for _, c := range catalogs {
		e.byCategory[c.Category()] = c
	}
	return e
}

// Categories lists the configured categories in index order
func (e *Engine) Categories() []string {
	out := make([]string, 0, len(e.catalogs))
	for _, c := range e.catalogs {
		out = append(out, c.Category())
	}
	return out
}

// Catalog returns the catalog for category
func (e *Engine) Catalog(category string) (Catalog, bool) {
	c, ok := e.byCategory[category]
	return c, ok
}

// Load fetches every catalog concurrently and replaces the index with the
// union. A failing category contributes no products; the others still
// load. Returns the number of indexed products.
func (e *Engine) Load(ctx context.Context) int {
	results := make([][]models.Product, len(e.catalogs))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range e.catalogs {
		i, c := i, c
		g.Go(func() error {
			products := c.FetchAll(gctx)
			for j := range products {
				products[j].Category = c.Category()
			}
			zap.S().Debugw("Loaded category", "category", c.Category(), "count", len(products))
			results[i] = products
			return nil
		})
	}
	_ = g.Wait()

	var index []models.Product
	for _, products := range results {
		index = append(index, products...)
	}

	e.mu.Lock()
	e.index = index
	e.mu.Unlock()

	if len(index) == 0 {
		zap.S().Warn("No products could be loaded")
	} else {
		zap.S().Infow("Search index loaded", "products", len(index), "categories", len(e.catalogs))
	}
	return len(index)
}

// Count is the size of the current index
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.index)
}

// Search runs the text filter, the category filter and the sort, in that
// order, over a copy of the index.
func (e *Engine) Search(q models.SearchQuery) []models.Product {
	e.mu.RLock()
	results := make([]models.Product, 0, len(e.index))
	text := strings.ToLower(strings.TrimSpace(q.Text))
	for _, p := range e.index {
		if matchesText(p, text) {
			results = append(results, p)
		}
	}
	e.mu.RUnlock()

	results = filterCategory(results, q.Category)
	e.sortResults(results, q.Sort)
	return results
}

func matchesText(p models.Product, text string) bool {
	if text == "" {
		return true
	}
	for _, field := range []string{p.Name, p.NameWithoutBrand, p.Brand.Name, p.DescriptionHTML} {
		if field != "" && strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

func filterCategory(products []models.Product, category string) []models.Product {
	if category == "" || category == models.CategoryAll {
		return products
	}
	out := products[:0]
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) sortResults(products []models.Product, key string) {
	switch key {
	case models.SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].FinalPrice < products[j].FinalPrice
		})
	case models.SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].FinalPrice > products[j].FinalPrice
		})
	case models.SortName:
		// collators are not safe for concurrent use
		col := collate.New(e.lang)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	default:
		// relevance keeps the filtered order
	}
}

// AddToCart resolves productID in the category's catalog and adds it to
// the session's cart.
func (e *Engine) AddToCart(ctx context.Context, sess models.Session, productID, category string) (models.Product, error) {
	c, ok := e.byCategory[category]
	if !ok {
		zap.S().Warnw("Error adding to cart", "error", "invalid category", "category", category)
		return models.Product{}, errors.Wrapf(ErrUnknownCategory, "category %q", category)
	}
	product, ok := c.FindByID(ctx, productID)
	if !ok {
		return models.Product{}, errors.Wrapf(ErrProductNotFound, "%s/%s", category, productID)
	}
	product.Category = category
	if _, err := e.cart.Add(ctx, sess, product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// ScheduleRefresh reloads the index on the given cron spec, e.g. "@every 10m"
func (e *Engine) ScheduleRefresh(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		e.Load(context.Background())
	})
}
