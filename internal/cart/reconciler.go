package cart

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

const DefaultStaleAfter = 5 * time.Minute

// API is the cart endpoint set. *clients.CartClient satisfies it.
type API interface {
	Get(ctx context.Context) (dto.Cart, error)
	Add(ctx context.Context, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error
	UpdateSelection(ctx context.Context, productIDs []string, selected bool) error
	Remove(ctx context.Context, productIDs []string) error
	Clear(ctx context.Context) error
}

type RollbackObserver interface {
	ObserveRollback(op string)
}

type Option func(*Reconciler)

func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

func WithRollbackObserver(o RollbackObserver) Option {
	return func(r *Reconciler) { r.rollbacks = o }
}

func WithImageResolver(images view.ImageResolver) Option {
	return func(r *Reconciler) { r.images = images }
}

func WithStaleAfter(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.staleAfter = d
		}
	}
}

// Reconciler owns the local cart list. Mutations are serialized so at most
// one confirmation is in flight; reads never wait on the network.
type Reconciler struct {
	api        API
	logger     *slog.Logger
	now        func() time.Time
	images     view.ImageResolver
	staleAfter time.Duration
	rollbacks  RollbackObserver

	// opMu serializes mutations; it is held across the backend call.
	opMu sync.Mutex

	mu       sync.RWMutex
	items    []Item
	status   SyncStatus
	lastErr  error
	lastSync time.Time
}

func NewReconciler(api API, opts ...Option) *Reconciler {
	r := &Reconciler{
		api:        api,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
		staleAfter: DefaultStaleAfter,
		status:     StatusIdle,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// confirmFunc sends the already-applied local change to the backend.
type confirmFunc func(ctx context.Context) error

// mutate runs one snapshot/apply/confirm cycle. apply receives a private
// copy of the list; returning an error or a nil confirm leaves all state
// untouched.
func (r *Reconciler) mutate(ctx context.Context, op string, conflictAs apierr.Code, apply func(items []Item) ([]Item, confirmFunc, error)) error {
	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.Lock()
	snapshot := slices.Clone(r.items)
	next, confirm, err := apply(slices.Clone(r.items))
	if err != nil || confirm == nil {
		r.mu.Unlock()
		return err
	}
	r.items = next
	r.status = StatusSyncing
	r.lastErr = nil
	r.mu.Unlock()

	err = confirm(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		err = apierr.ForOp(op, err, conflictAs)
		r.items = snapshot
		r.status = StatusError
		r.lastErr = err
		if r.rollbacks != nil {
			r.rollbacks.ObserveRollback(op)
		}
		r.logger.WarnContext(ctx, "cart change reverted", "op", op, "error", err)
		return err
	}
	r.status = StatusIdle
	r.lastSync = r.now()
	return nil
}

// AddToCart adds quantity of p. An item already in the cart has its quantity
// increased and the backend receives the new total.
func (r *Reconciler) AddToCart(ctx context.Context, p catalog.Product, quantity int) error {
	const op = "cart.add"
	if strings.TrimSpace(p.ID) == "" {
		return apierr.Validation(op, apierr.CodeInvalidArgument, "product id must not be empty")
	}
	if quantity <= 0 {
		return apierr.Validation(op, apierr.CodeInvalidArgument, "quantity must be greater than 0")
	}

	return r.mutate(ctx, op, apierr.CodeInsufficientStock, func(items []Item) ([]Item, confirmFunc, error) {
		if i := indexOf(items, p.ID); i >= 0 {
			total := items[i].Quantity + quantity
			items[i].Quantity = total
			return items, func(ctx context.Context) error {
				return r.api.UpdateQuantity(ctx, p.ID, total)
			}, nil
		}

		items = append(items, Item{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Brand:    p.Brand,
			Image:    p.Image,
			Quantity: quantity,
			Selected: true,
			AddTime:  view.At(r.now()),
		})
		return items, func(ctx context.Context) error {
			return r.api.Add(ctx, p.ID, quantity)
		}, nil
	})
}

// UpdateQuantity sets the quantity of id. A quantity of zero or less removes
// the item.
func (r *Reconciler) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	const op = "cart.update"
	return r.mutate(ctx, op, apierr.CodeInsufficientStock, func(items []Item) ([]Item, confirmFunc, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, nil, notInCart(op, id)
		}
		if quantity <= 0 {
			return slices.Delete(items, i, i+1), func(ctx context.Context) error {
				return r.api.Remove(ctx, []string{id})
			}, nil
		}
		items[i].Quantity = quantity
		return items, func(ctx context.Context) error {
			return r.api.UpdateQuantity(ctx, id, quantity)
		}, nil
	})
}

func (r *Reconciler) ToggleSelection(ctx context.Context, id string) error {
	const op = "cart.select"
	return r.mutate(ctx, op, "", func(items []Item) ([]Item, confirmFunc, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, nil, notInCart(op, id)
		}
		selected := !items[i].Selected
		items[i].Selected = selected
		return items, func(ctx context.Context) error {
			return r.api.UpdateSelection(ctx, []string{id}, selected)
		}, nil
	})
}

// SetAllSelection selects or deselects every item. It does nothing on an
// empty cart.
func (r *Reconciler) SetAllSelection(ctx context.Context, selected bool) error {
	return r.mutate(ctx, "cart.select", "", func(items []Item) ([]Item, confirmFunc, error) {
		if len(items) == 0 {
			return items, nil, nil
		}
		ids := make([]string, 0, len(items))
		for i := range items {
			items[i].Selected = selected
			ids = append(ids, items[i].ID)
		}
		return items, func(ctx context.Context) error {
			return r.api.UpdateSelection(ctx, ids, selected)
		}, nil
	})
}

// RemoveSelected removes every selected item.
func (r *Reconciler) RemoveSelected(ctx context.Context) error {
	const op = "cart.remove"
	return r.mutate(ctx, op, "", func(items []Item) ([]Item, confirmFunc, error) {
		ids := SelectedIDs(items)
		if len(ids) == 0 {
			return nil, nil, apierr.Validation(op, apierr.CodeEmptySelection, "no items are selected")
		}
		kept := slices.DeleteFunc(items, func(it Item) bool { return it.Selected })
		return kept, func(ctx context.Context) error {
			return r.api.Remove(ctx, ids)
		}, nil
	})
}

// RemoveItems removes the listed items. Ids not in the cart are ignored as
// long as at least one is present.
func (r *Reconciler) RemoveItems(ctx context.Context, ids []string) error {
	const op = "cart.remove"
	if len(ids) == 0 {
		return apierr.Validation(op, apierr.CodeEmptySelection, "no items to remove")
	}
	return r.mutate(ctx, op, "", func(items []Item) ([]Item, confirmFunc, error) {
		var present []string
		for _, id := range ids {
			if indexOf(items, id) >= 0 && !slices.Contains(present, id) {
				present = append(present, id)
			}
		}
		if len(present) == 0 {
			return nil, nil, notInCart(op, ids[0])
		}
		kept := slices.DeleteFunc(items, func(it Item) bool { return slices.Contains(present, it.ID) })
		return kept, func(ctx context.Context) error {
			return r.api.Remove(ctx, present)
		}, nil
	})
}

// ClearCart empties the cart. The backend is always called, even when the
// local list is already empty.
func (r *Reconciler) ClearCart(ctx context.Context) error {
	return r.mutate(ctx, "cart.clear", "", func([]Item) ([]Item, confirmFunc, error) {
		return []Item{}, r.api.Clear, nil
	})
}

// Load replaces the local list with the backend cart. On failure the local
// list is kept.
func (r *Reconciler) Load(ctx context.Context) error {
	const op = "cart.load"
	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.Lock()
	r.status = StatusSyncing
	r.lastErr = nil
	r.mu.Unlock()

	c, err := r.api.Get(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		err = apierr.ForOp(op, err, "")
		r.status = StatusError
		r.lastErr = err
		r.logger.WarnContext(ctx, "cart load failed", "error", err)
		return err
	}
	r.items = FromWire(c, r.images)
	r.status = StatusIdle
	r.lastSync = r.now()
	r.logger.DebugContext(ctx, "cart loaded", "items", len(r.items), "total_quantity", c.TotalQuantity)
	return nil
}

// SyncIfStale loads the cart when NeedsSync reports true.
func (r *Reconciler) SyncIfStale(ctx context.Context) error {
	if !r.NeedsSync() {
		return nil
	}
	return r.Load(ctx)
}

func (r *Reconciler) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

func (r *Reconciler) Status() SyncStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Reconciler) Syncing() bool { return r.Status() == StatusSyncing }

func (r *Reconciler) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

func (r *Reconciler) LastSyncTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastSync
}

// NeedsSync is true before the first successful sync and once the last one
// is older than the stale interval.
func (r *Reconciler) NeedsSync() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.needsSyncLocked()
}

func (r *Reconciler) needsSyncLocked() bool {
	return r.lastSync.IsZero() || r.now().Sub(r.lastSync) > r.staleAfter
}

func (r *Reconciler) TotalCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return TotalCount(r.items)
}

func (r *Reconciler) TotalPrice() decimal.Decimal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return TotalPrice(r.items)
}

func (r *Reconciler) SelectedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return SelectedCount(r.items)
}

func (r *Reconciler) HasSelected() bool { return r.SelectedCount() > 0 }

func (r *Reconciler) SelectedItems() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return SelectedItems(r.items)
}

func (r *Reconciler) SelectedIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return SelectedIDs(r.items)
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Snapshot{
		Items:         slices.Clone(r.items),
		Status:        r.status,
		LastSync:      r.lastSync,
		TotalCount:    TotalCount(r.items),
		TotalPrice:    TotalPrice(r.items),
		SelectedCount: SelectedCount(r.items),
		NeedsSync:     r.needsSyncLocked(),
	}
	if s.Items == nil {
		s.Items = []Item{}
	}
	if r.lastErr != nil {
		s.LastError = apierr.Display(r.lastErr)
	}
	return s
}

func indexOf(items []Item, id string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
}

func notInCart(op, id string) error {
	return apierr.Validation(op, apierr.CodeNotInCart, "item "+id+" is not in the cart")
}
