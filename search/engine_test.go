package search

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chibuezemicahe/wdd330-sleepoutside/cart"
	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
	"github.com/chibuezemicahe/wdd330-sleepoutside/storage"
)

type fakeCatalog struct {
	category string
	products []models.Product
	delay    time.Duration
}

func (f *fakeCatalog) Category() string { return f.category }

func (f *fakeCatalog) FetchAll(ctx context.Context) []models.Product {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	out := make([]models.Product, len(f.products))
	copy(out, f.products)
	return out
}

func (f *fakeCatalog) FindByID(ctx context.Context, id string) (models.Product, bool) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func product(id, name, brand string, price float64, desc string) models.Product {
	return models.Product{
		ID:               id,
		Name:             brand + " " + name,
		NameWithoutBrand: name,
		Brand:            models.Brand{Name: brand},
		FinalPrice:       price,
		DescriptionHTML:  desc,
	}
}

func fixture() (*Engine, *cart.Store) {
	tents := &fakeCatalog{category: "tents", products: []models.Product{
		product("880RR", "Ajax Tent - 3-Person", "Marmot", 199.99, "Roomy three season shelter"),
		product("985RF", "Talus Tent - 4-Person", "The North Face", 149.50, "Durable"),
		product("344YJ", "Alpine Guide Tent", "Cedar Ridge", 89.00, ""),
	}}
	backpacks := &fakeCatalog{category: "backpacks", products: []models.Product{
		product("1", "Daypack 20", "Osprey", 79.95, "Fits a compact TENT pole set"),
		product("2", "Trail 40", "Gregory", 129.00, "Roomy"),
	}}
	bags := &fakeCatalog{category: "sleeping-bags", products: []models.Product{
		product("1", "Cosmic 20", "Kelty", 0, "Warm"),
	}}
	store := cart.NewStore(storage.NewMemoryStore())
	return NewEngine(store, tents, backpacks, bags), store
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Category+"/"+p.ID)
	}
	return out
}

func TestLoad_TagsCategories(t *testing.T) {
	e, _ := fixture()
	assert.Equal(t, 6, e.Load(context.Background()))
	assert.Equal(t, 6, e.Count())

	all := e.Search(models.SearchQuery{})
	assert.Equal(t, []string{
		"tents/880RR", "tents/985RF", "tents/344YJ",
		"backpacks/1", "backpacks/2", "sleeping-bags/1",
	}, ids(all))
}

func TestLoad_FailedCategoryIsIsolated(t *testing.T) {
	ok := &fakeCatalog{category: "tents", products: []models.Product{product("a", "Tent", "X", 10, "")}}
	broken := &fakeCatalog{category: "backpacks"}
	slow := &fakeCatalog{category: "sleeping-bags", delay: 20 * time.Millisecond,
		products: []models.Product{product("b", "Bag", "Y", 20, "")}}

	e := NewEngine(cart.NewStore(storage.NewMemoryStore()), ok, broken, slow)
	assert.Equal(t, 2, e.Load(context.Background()))
	assert.Equal(t, []string{"tents/a", "sleeping-bags/b"}, ids(e.Search(models.SearchQuery{})))
}

func TestLoad_ReplacesIndex(t *testing.T) {
	c := &fakeCatalog{category: "tents", products: []models.Product{product("a", "Tent", "X", 10, "")}}
	e := NewEngine(cart.NewStore(storage.NewMemoryStore()), c)
	e.Load(context.Background())
	c.products = nil
	e.Load(context.Background())
	assert.Equal(t, 0, e.Count())
}

func TestSearch_Text(t *testing.T) {
	e, _ := fixture()
	e.Load(context.Background())

	results := e.Search(models.SearchQuery{Text: "tent"})
	assert.Equal(t, []string{"tents/880RR", "tents/985RF", "tents/344YJ", "backpacks/1"}, ids(results))

	results = e.Search(models.SearchQuery{Text: "  NORTH face "})
	assert.Equal(t, []string{"tents/985RF"}, ids(results))

	results = e.Search(models.SearchQuery{Text: "roomy"})
	assert.Equal(t, []string{"tents/880RR", "backpacks/2"}, ids(results))

	assert.Empty(t, e.Search(models.SearchQuery{Text: "kayak"}))
	assert.Len(t, e.Search(models.SearchQuery{Text: "   "}), 6)
}

func TestSearch_Category(t *testing.T) {
	e, _ := fixture()
	e.Load(context.Background())

	assert.Equal(t, []string{"backpacks/1", "backpacks/2"}, ids(e.Search(models.SearchQuery{Category: "backpacks"})))
	assert.Len(t, e.Search(models.SearchQuery{Category: models.CategoryAll}), 6)
	assert.Empty(t, e.Search(models.SearchQuery{Category: "kayaks"}))
	assert.Equal(t, []string{"backpacks/1"}, ids(e.Search(models.SearchQuery{Text: "tent", Category: "backpacks"})))
}

func TestSearch_PriceLow(t *testing.T) {
	e, _ := fixture()
	e.Load(context.Background())

	results := e.Search(models.SearchQuery{Text: "tent", Sort: models.SortPriceLow})
	require.Len(t, results, 4)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].FinalPrice, results[i].FinalPrice)
	}

	all := e.Search(models.SearchQuery{Sort: models.SortPriceLow})
	assert.Equal(t, "sleeping-bags/1", ids(all)[0], "missing price sorts as zero")
}

func TestSearch_PriceHigh(t *testing.T) {
	e, _ := fixture()
	e.Load(context.Background())

	results := e.Search(models.SearchQuery{Sort: models.SortPriceHigh})
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].FinalPrice, results[i].FinalPrice)
	}
	assert.Equal(t, "tents/880RR", ids(results)[0])
}

func TestSearch_Name(t *testing.T) {
	e, _ := fixture()
	e.Load(context.Background())

	results := e.Search(models.SearchQuery{Category: "tents", Sort: models.SortName})
	assert.Equal(t, []string{"tents/344YJ", "tents/880RR", "tents/985RF"}, ids(results))
}

func TestSearch_RelevanceKeepsOrder(t *testing.T) {
	e, _ := fixture()
	e.Load(context.Background())

	plain := e.Search(models.SearchQuery{Text: "o"})
	relevance := e.Search(models.SearchQuery{Text: "o", Sort: models.SortRelevance})
	unknown := e.Search(models.SearchQuery{Text: "o", Sort: "popularity"})
	assert.Equal(t, ids(plain), ids(relevance))
	assert.Equal(t, ids(plain), ids(unknown))
}

func TestSearch_DoesNotMutateIndex(t *testing.T) {
	e, _ := fixture()
	e.Load(context.Background())

	e.Search(models.SearchQuery{Category: "backpacks", Sort: models.SortPriceHigh})
	assert.Equal(t, "tents/880RR", ids(e.Search(models.SearchQuery{}))[0])
}

func TestAddToCart(t *testing.T) {
	e, store := fixture()
	ctx := context.Background()
	sess := models.Session{ID: "s"}

	p, err := e.AddToCart(ctx, sess, "1", "backpacks")
	require.NoError(t, err)
	assert.Equal(t, "Daypack 20", p.NameWithoutBrand)

	_, err = e.AddToCart(ctx, sess, "1", "backpacks")
	require.NoError(t, err)
	// same id, different category
	_, err = e.AddToCart(ctx, sess, "1", "sleeping-bags")
	require.NoError(t, err)

	items, err := store.Get(ctx, sess)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "backpacks", items[0].Product.Category)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "sleeping-bags", items[1].Product.Category)
}

func TestAddToCart_Failures(t *testing.T) {
	e, store := fixture()
	ctx := context.Background()
	sess := models.Session{ID: "s"}

	_, err := e.AddToCart(ctx, sess, "1", "kayaks")
	assert.Equal(t, ErrUnknownCategory, errors.Cause(err))

	_, err = e.AddToCart(ctx, sess, "missing", "tents")
	assert.Equal(t, ErrProductNotFound, errors.Cause(err))

	items, err := store.Get(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScheduleRefresh(t *testing.T) {
	e, _ := fixture()
	c := cron.New()
	_, err := e.ScheduleRefresh(c, "@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = e.ScheduleRefresh(c, "not a spec")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	e, _ := fixture()
	assert.Equal(t, []string{"tents", "backpacks", "sleeping-bags"}, e.Categories())
	_, ok := e.Catalog("tents")
	assert.True(t, ok)
}
