package order

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/pagination"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const DefaultPageSize = 10

// API is the order endpoint set. *clients.OrderClient satisfies it.
type API interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (dto.Order, error)
	List(ctx context.Context, q dto.OrderQuery) (dto.OrderPage, error)
	Get(ctx context.Context, orderID string) (dto.Order, error)
	Pay(ctx context.Context, orderID string) error
	Cancel(ctx context.Context, orderID string) error
	Complete(ctx context.Context, orderID string) error
}

// Query selects a page of orders. An empty Status lists every status.
type Query struct {
	Status Status
	Page   int
	Size   int
}

// Workflow holds the order list being browsed and the order being viewed.
type Workflow struct {
	api       API
	transform Transformer
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.RWMutex
	orders   []Summary
	current  *Order
	cursor   pagination.Cursor
	filter   Status
	loading  bool
	creating bool
	lastErr  error
}

func NewWorkflow(api API, t Transformer, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workflow{
		api:       api,
		transform: t,
		logger:    logger,
		now:       time.Now,
		cursor:    pagination.New(1, DefaultPageSize),
	}
}

// Create places an order for productIDs from the cart.
func (w *Workflow) Create(ctx context.Context, productIDs []string, remark string) (Order, error) {
	const op = "order.create"
	if len(productIDs) == 0 {
		return Order{}, apierr.Validation(op, apierr.CodeEmptySelection, "select at least one item to order")
	}

	w.mu.Lock()
	w.creating = true
	w.lastErr = nil
	w.mu.Unlock()

	o, err := w.api.Create(ctx, dto.CreateOrderRequest{ProductIDs: productIDs, Remark: remark})

	w.mu.Lock()
	defer w.mu.Unlock()
	w.creating = false
	if err != nil {
		err = apierr.ForOp(op, err, apierr.CodeInsufficientStock)
		w.lastErr = err
		w.logger.WarnContext(ctx, "order creation failed", "items", len(productIDs), "error", err)
		return Order{}, err
	}
	created := w.transform.Order(o)
	w.logger.InfoContext(ctx, "order created", "order_id", created.ID, "items", len(created.Lines))
	return created, nil
}

// Fetch loads one page of orders with q.Status as the active filter.
func (w *Workflow) Fetch(ctx context.Context, q Query) ([]Summary, error) {
	const op = "order.list"

	w.mu.Lock()
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = w.cursor.Size
	}
	w.filter = q.Status
	w.loading = true
	w.lastErr = nil
	w.mu.Unlock()

	requested := pagination.New(q.Page, q.Size)
	resp, err := w.api.List(ctx, dto.OrderQuery{Status: string(q.Status), Page: q.Page, Size: q.Size})

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	if err != nil {
		err = apierr.ForOp(op, err, "")
		w.lastErr = err
		return nil, err
	}

	w.orders = w.transform.Summaries(resp.Orders)
	p := resp.Pagination
	w.cursor = pagination.FromResponse(pagination.Reported{
		Page:       p.Page,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages,
		HasNext:    &p.HasNext,
		HasPrev:    &p.HasPrev,
	}, requested)
	return slices.Clone(w.orders), nil
}

func (w *Workflow) FetchDetail(ctx context.Context, orderID string) (Order, error) {
	const op = "order.detail"
	if strings.TrimSpace(orderID) == "" {
		return Order{}, apierr.Validation(op, apierr.CodeInvalidArgument, "order id must not be empty")
	}

	w.mu.Lock()
	w.loading = true
	w.lastErr = nil
	w.mu.Unlock()

	o, err := w.api.Get(ctx, orderID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = false
	if err != nil {
		err = apierr.ForOp(op, err, "")
		w.lastErr = err
		return Order{}, err
	}
	detail := w.transform.Order(o)
	w.current = &detail
	return detail, nil
}

// Refresh reloads the current page with the current filter.
func (w *Workflow) Refresh(ctx context.Context) ([]Summary, error) {
	c, f := w.state()
	return w.Fetch(ctx, Query{Status: f, Page: c.Page, Size: c.Size})
}

func (w *Workflow) NextPage(ctx context.Context) ([]Summary, error) {
	c, f := w.state()
	if !c.HasNext {
		return w.Orders(), nil
	}
	return w.Fetch(ctx, Query{Status: f, Page: c.Page + 1, Size: c.Size})
}

func (w *Workflow) PrevPage(ctx context.Context) ([]Summary, error) {
	c, f := w.state()
	if !c.HasPrev {
		return w.Orders(), nil
	}
	return w.Fetch(ctx, Query{Status: f, Page: c.Page - 1, Size: c.Size})
}

// GoToPage ignores pages outside 1..TotalPages.
func (w *Workflow) GoToPage(ctx context.Context, page int) ([]Summary, error) {
	c, f := w.state()
	if page < 1 || page > c.TotalPages {
		return w.Orders(), nil
	}
	return w.Fetch(ctx, Query{Status: f, Page: page, Size: c.Size})
}

func (w *Workflow) ChangePageSize(ctx context.Context, size int) ([]Summary, error) {
	_, f := w.state()
	return w.Fetch(ctx, Query{Status: f, Page: 1, Size: size})
}

// FilterByStatus restarts at page 1; an empty status clears the filter.
func (w *Workflow) FilterByStatus(ctx context.Context, status Status) ([]Summary, error) {
	c, _ := w.state()
	return w.Fetch(ctx, Query{Status: status, Page: 1, Size: c.Size})
}

func (w *Workflow) Pay(ctx context.Context, orderID string) error {
	return w.transition(ctx, "order.pay", orderID, StatusPaid, w.api.Pay)
}

func (w *Workflow) Cancel(ctx context.Context, orderID string) error {
	return w.transition(ctx, "order.cancel", orderID, StatusCancelled, w.api.Cancel)
}

// Complete confirms receipt of a paid order.
func (w *Workflow) Complete(ctx context.Context, orderID string) error {
	return w.transition(ctx, "order.complete", orderID, StatusCompleted, w.api.Complete)
}

// transition checks the edge against any locally known status, calls the
// backend, then updates the viewed order and reloads the list.
func (w *Workflow) transition(ctx context.Context, op, orderID string, to Status, call func(context.Context, string) error) error {
	if strings.TrimSpace(orderID) == "" {
		return apierr.Validation(op, apierr.CodeInvalidArgument, "order id must not be empty")
	}
	if from, ok := w.knownStatus(orderID); ok && !CanTransition(from, to) {
		return apierr.Validation(op, apierr.CodeInvalidTransition,
			"order "+orderID+" is "+from.Label()+" and cannot become "+to.Label())
	}

	if err := call(ctx, orderID); err != nil {
		err = apierr.ForOp(op, err, apierr.CodeInvalidTransition)
		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()
		w.logger.WarnContext(ctx, "order transition failed", "op", op, "order_id", orderID, "error", err)
		return err
	}

	w.mu.Lock()
	if w.current != nil && w.current.ID == orderID {
		w.current.Status = to
		w.current.StatusLabel = to.Label()
		stamp := view.FormatTime(w.now(), w.transform.Location)
		switch to {
		case StatusPaid:
			w.current.PayTime = stamp
		case StatusCancelled:
			w.current.CancelTime = stamp
		case StatusCompleted:
			w.current.CompleteTime = stamp
		}
	}
	w.mu.Unlock()
	w.logger.InfoContext(ctx, "order transitioned", "order_id", orderID, "status", to)

	if _, err := w.Refresh(ctx); err != nil {
		w.logger.WarnContext(ctx, "order list refresh failed", "error", err)
	}
	return nil
}

// knownStatus prefers the viewed order over the list row.
func (w *Workflow) knownStatus(orderID string) (Status, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current != nil && w.current.ID == orderID && w.current.Status.Known() {
		return w.current.Status, true
	}
	for _, s := range w.orders {
		if s.ID == orderID && s.Status.Known() {
			return s.Status, true
		}
	}
	return "", false
}

func (w *Workflow) Find(orderID string) (Summary, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, s := range w.orders {
		if s.ID == orderID {
			return s, true
		}
	}
	return Summary{}, false
}

// Counts tallies the current page only.
func (w *Workflow) Counts() Counts {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var c Counts
	for _, s := range w.orders {
		switch s.Status {
		case StatusPendingPayment:
			c.Pending++
		case StatusPaid:
			c.Paid++
		case StatusCompleted:
			c.Completed++
		case StatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

func (w *Workflow) Orders() []Summary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.orders)
}

func (w *Workflow) Current() (Order, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return Order{}, false
	}
	o := *w.current
	o.Lines = slices.Clone(o.Lines)
	return o, true
}

func (w *Workflow) Cursor() pagination.Cursor {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cursor
}

func (w *Workflow) Filter() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.filter
}

func (w *Workflow) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loading
}

func (w *Workflow) Creating() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.creating
}

func (w *Workflow) LastError() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastErr
}

func (w *Workflow) ClearCurrent() {
	w.mu.Lock()
	w.current = nil
	w.mu.Unlock()
}

func (w *Workflow) ClearError() {
	w.mu.Lock()
	w.lastErr = nil
	w.mu.Unlock()
}

func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.orders = nil
	w.current = nil
	w.cursor = pagination.New(1, DefaultPageSize)
	w.filter = ""
	w.loading = false
	w.creating = false
	w.lastErr = nil
}

func (w *Workflow) state() (pagination.Cursor, Status) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cursor, w.filter
}
