package catalog

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pagination"
)

const DefaultPageSize = 8

// API is the slice of the product client the browser needs.
type API interface {
	List(ctx context.Context, q clients.ProductQuery) (dto.ProductPage, error)
	Get(ctx context.Context, id string) (dto.Product, error)
}

// Browser holds the current product page and the product being viewed.
// It is safe for concurrent use; no lock is held during backend calls.
type Browser struct {
	api       API
	transform Transformer
	logger    *slog.Logger

	mu       sync.RWMutex
	products []Product
	current  *ProductDetail
	cursor   pagination.Cursor
	filters  map[string]string
	loading  bool
	lastErr  error
}

func NewBrowser(api API, t Transformer, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Browser{
		api:       api,
		transform: t,
		logger:    logger,
		cursor:    pagination.New(1, DefaultPageSize),
	}
}

// Fetch loads one page. A failure clears the product list.
func (b *Browser) Fetch(ctx context.Context, page, size int, filters map[string]string) ([]Product, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	requested := pagination.New(page, size)

	b.mu.Lock()
	b.loading = true
	b.lastErr = nil
	b.filters = maps.Clone(filters)
	b.mu.Unlock()

	b.logger.DebugContext(ctx, "fetching products", "page", page, "size", size, "filters", filters)
	resp, err := b.api.List(ctx, clients.ProductQuery{Page: page, Size: size, Filters: filters})

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		err = apierr.ForOp("catalog.list", err, "")
		b.lastErr = err
		b.products = nil
		b.logger.WarnContext(ctx, "product list failed", "error", err)
		return nil, err
	}

	b.products = b.transform.Products(resp.Products)
	b.cursor = pagination.FromResponse(pagination.Reported{
		Page:       resp.Page,
		Size:       resp.Size,
		Total:      resp.Total,
		TotalPages: resp.TotalPages,
		HasNext:    resp.HasNext,
		HasPrev:    resp.HasPrevious,
	}, requested)
	return slices.Clone(b.products), nil
}

// FetchDetail loads one product. A failure clears the current product.
func (b *Browser) FetchDetail(ctx context.Context, id string) (ProductDetail, error) {
	if strings.TrimSpace(id) == "" {
		return ProductDetail{}, apierr.Validation("catalog.detail", apierr.CodeInvalidArgument, "product id must not be empty")
	}

	b.mu.Lock()
	b.loading = true
	b.lastErr = nil
	b.mu.Unlock()

	p, err := b.api.Get(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false
	if err != nil {
		err = apierr.ForOp("catalog.detail", err, "")
		b.lastErr = err
		b.current = nil
		return ProductDetail{}, err
	}
	d := b.transform.Detail(p)
	b.current = &d
	return d, nil
}

// Refresh reloads the current page with the current filters.
func (b *Browser) Refresh(ctx context.Context) ([]Product, error) {
	c, f := b.state()
	return b.Fetch(ctx, c.Page, c.Size, f)
}

// NextPage is a no-op returning the current list when there is no next page.
func (b *Browser) NextPage(ctx context.Context) ([]Product, error) {
	c, f := b.state()
	if !c.HasNext {
		return b.Products(), nil
	}
	return b.Fetch(ctx, c.Page+1, c.Size, f)
}

func (b *Browser) PrevPage(ctx context.Context) ([]Product, error) {
	c, f := b.state()
	if !c.HasPrev {
		return b.Products(), nil
	}
	return b.Fetch(ctx, c.Page-1, c.Size, f)
}

// GoToPage ignores pages outside 1..TotalPages.
func (b *Browser) GoToPage(ctx context.Context, page int) ([]Product, error) {
	c, f := b.state()
	if page < 1 || page > c.TotalPages {
		return b.Products(), nil
	}
	return b.Fetch(ctx, page, c.Size, f)
}

// ChangePageSize restarts at page 1.
func (b *Browser) ChangePageSize(ctx context.Context, size int) ([]Product, error) {
	_, f := b.state()
	return b.Fetch(ctx, 1, size, f)
}

func (b *Browser) FindByID(id string) (Product, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, p := range b.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ActiveCount counts ACTIVE products on the current page.
func (b *Browser) ActiveCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, p := range b.products {
		if p.Status == StatusActive {
			n++
		}
	}
	return n
}

func (b *Browser) Products() []Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.products)
}

func (b *Browser) Current() (ProductDetail, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.current == nil {
		return ProductDetail{}, false
	}
	return *b.current, true
}

func (b *Browser) Cursor() pagination.Cursor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

func (b *Browser) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

func (b *Browser) LastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

func (b *Browser) ClearCurrent() {
	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()
}

func (b *Browser) ClearError() {
	b.mu.Lock()
	b.lastErr = nil
	b.mu.Unlock()
}

func (b *Browser) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = nil
	b.current = nil
	b.cursor = pagination.New(1, DefaultPageSize)
	b.filters = nil
	b.loading = false
	b.lastErr = nil
}

func (b *Browser) state() (pagination.Cursor, map[string]string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor, maps.Clone(b.filters)
}
