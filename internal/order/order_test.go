package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/view"
)

type fakeAPI struct {
	mu sync.Mutex

	createFn func(ctx context.Context, req dto.CreateOrderRequest) (dto.Order, error)
	listFn   func(ctx context.Context, q dto.OrderQuery) (dto.OrderPage, error)
	getFn    func(ctx context.Context, id string) (dto.Order, error)
	actionFn func(verb, id string) error

	lists   []dto.OrderQuery
	actions []string
}

func (f *fakeAPI) Create(ctx context.Context, req dto.CreateOrderRequest) (dto.Order, error) {
	return f.createFn(ctx, req)
}

func (f *fakeAPI) List(ctx context.Context, q dto.OrderQuery) (dto.OrderPage, error) {
	f.mu.Lock()
	f.lists = append(f.lists, q)
	f.mu.Unlock()
	return f.listFn(ctx, q)
}

func (f *fakeAPI) Get(ctx context.Context, id string) (dto.Order, error) {
	return f.getFn(ctx, id)
}

func (f *fakeAPI) action(verb, id string) error {
	f.mu.Lock()
	f.actions = append(f.actions, verb+":"+id)
	f.mu.Unlock()
	if f.actionFn == nil {
		return nil
	}
	return f.actionFn(verb, id)
}

func (f *fakeAPI) Pay(_ context.Context, id string) error      { return f.action("pay", id) }
func (f *fakeAPI) Cancel(_ context.Context, id string) error   { return f.action("cancel", id) }
func (f *fakeAPI) Complete(_ context.Context, id string) error { return f.action("complete", id) }

var testTransformer = Transformer{
	Images:   view.NewImageResolver("http://img.local/api/images", ""),
	Location: time.UTC,
}

// backend keeps order statuses and serves them through fakeAPI.
func backend(statuses map[string]Status) *fakeAPI {
	var mu sync.Mutex
	api := &fakeAPI{}
	api.listFn = func(_ context.Context, q dto.OrderQuery) (dto.OrderPage, error) {
		mu.Lock()
		defer mu.Unlock()
		var out []dto.OrderListItem
		for _, id := range []string{"o1", "o2", "o3"} {
			s, ok := statuses[id]
			if !ok || (q.Status != "" && string(s) != q.Status) {
				continue
			}
			out = append(out, dto.OrderListItem{OrderID: id, Status: string(s), TotalAmount: decimal.NewFromInt(10)})
		}
		return dto.OrderPage{Orders: out, Pagination: dto.Pagination{Page: q.Page, Size: q.Size, Total: len(out), TotalPages: 1}}, nil
	}
	api.getFn = func(_ context.Context, id string) (dto.Order, error) {
		mu.Lock()
		defer mu.Unlock()
		s, ok := statuses[id]
		if !ok {
			return dto.Order{}, apierr.Business("/order/"+id, 200, 404, "ORDER_NOT_FOUND", "订单不存在")
		}
		return dto.Order{OrderID: id, Status: string(s), CreateTime: "2024-01-05T10:00:00"}, nil
	}
	api.actionFn = func(verb, id string) error {
		mu.Lock()
		defer mu.Unlock()
		switch verb {
		case "pay":
			statuses[id] = StatusPaid
		case "cancel":
			statuses[id] = StatusCancelled
		case "complete":
			statuses[id] = StatusCompleted
		}
		return nil
	}
	return api
}

func TestStatusMachine(t *testing.T) {
	tests := map[string]struct {
		from, to Status
		want     bool
	}{
		"pay pending":         {StatusPendingPayment, StatusPaid, true},
		"cancel pending":      {StatusPendingPayment, StatusCancelled, true},
		"complete paid":       {StatusPaid, StatusCompleted, true},
		"cancel paid":         {StatusPaid, StatusCancelled, false},
		"pay cancelled":       {StatusCancelled, StatusPaid, false},
		"pay completed":       {StatusCompleted, StatusPaid, false},
		"complete pending":    {StatusPendingPayment, StatusCompleted, false},
		"unknown has no edge": {Status("REFUNDED"), StatusPaid, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}

	assert.True(t, CanPay(StatusPendingPayment))
	assert.True(t, CanCancel(StatusPendingPayment))
	assert.True(t, CanComplete(StatusPaid))
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPaid.Terminal())
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Unpaid", StatusPendingPayment.Label())
	assert.Equal(t, "Paid", StatusPaid.Label())
	assert.Equal(t, "Completed", StatusCompleted.Label())
	assert.Equal(t, "Cancelled", StatusCancelled.Label())
	assert.Equal(t, "Unknown", Status("X").Label())
}

func TestTransformOrder(t *testing.T) {
	o := testTransformer.Order(dto.Order{
		OrderID:    "o1",
		Status:     "PAID",
		CreateTime: "2024-01-05T10:00:00",
		PayTime:    "2024-01-05T10:05:00Z",
		Items: []dto.OrderItem{
			{ProductID: "p1", ProductName: "Kettle", Price: decimal.RequireFromString("12.5"), Quantity: 2},
			{ProductID: "p2", ProductName: "Cup", Price: decimal.NewFromInt(3), Quantity: 1, TotalAmount: decimal.NewFromInt(2), ImageURL: "hdfs://nn/img/cup.png"},
			{ProductID: "p3", Image: "https://cdn/x.png"},
		},
		Address: &dto.Address{Receiver: "Li", Postcode: "100000"},
	})

	assert.Equal(t, "o1", o.Number)
	assert.Equal(t, "Paid", o.StatusLabel)
	assert.Equal(t, "2024-01-05 10:00:00", o.CreateTime)
	assert.Equal(t, "2024-01-05 10:05:00", o.PayTime)
	assert.Empty(t, o.CancelTime)
	require.Len(t, o.Lines, 3)
	assert.True(t, decimal.NewFromInt(25).Equal(o.Lines[0].Subtotal))
	assert.Equal(t, "https://via.placeholder.com/80x80?text=Kettle", o.Lines[0].Image)
	assert.True(t, decimal.NewFromInt(2).Equal(o.Lines[1].Subtotal))
	assert.Equal(t, "http://img.local/api/images/cup.png", o.Lines[1].Image)
	assert.Equal(t, "https://cdn/x.png", o.Lines[2].Image)
	assert.Equal(t, "Li", o.Address.Receiver)
}

func TestTransformSummaryAmountFallbacks(t *testing.T) {
	s := testTransformer.Summary(dto.OrderListItem{OrderID: "o1", Status: "NEW", ActualAmount: decimal.NewFromInt(9)})
	assert.True(t, decimal.NewFromInt(9).Equal(s.TotalAmount))
	assert.Equal(t, "Unknown", s.StatusLabel)
	assert.Equal(t, "-", s.CreateTime)

	s = testTransformer.Summary(dto.OrderListItem{TotalAmount: decimal.NewFromInt(7)})
	assert.True(t, decimal.NewFromInt(7).Equal(s.ActualAmount))
}

func TestSummariesSkipFixtureOrders(t *testing.T) {
	out := testTransformer.Summaries([]dto.OrderListItem{
		{OrderID: "test-0001", Status: "PAID"},
		{OrderID: "o2", Status: "PAID"},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "o2", out[0].ID)
}

func TestCreate(t *testing.T) {
	api := &fakeAPI{createFn: func(_ context.Context, req dto.CreateOrderRequest) (dto.Order, error) {
		assert.Equal(t, []string{"p1", "p2"}, req.ProductIDs)
		assert.Equal(t, "gift", req.Remark)
		return dto.Order{OrderID: "o9", Status: "PENDING_PAYMENT"}, nil
	}}
	w := NewWorkflow(api, testTransformer, nil)

	_, err := w.Create(context.Background(), nil, "")
	assert.ErrorIs(t, err, apierr.ErrEmptySelection)

	o, err := w.Create(context.Background(), []string{"p1", "p2"}, "gift")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingPayment, o.Status)
	assert.False(t, w.Creating())
}

func TestCreateRecodesConflict(t *testing.T) {
	api := &fakeAPI{createFn: func(context.Context, dto.CreateOrderRequest) (dto.Order, error) {
		return dto.Order{}, apierr.Business("/order/create", 200, 409, "", "库存不足")
	}}
	w := NewWorkflow(api, testTransformer, nil)

	_, err := w.Create(context.Background(), []string{"p1"}, "")
	assert.ErrorIs(t, err, apierr.ErrInsufficientStock)
	assert.Equal(t, err, w.LastError())
}

func TestPayRejectedLocallyForTerminalOrders(t *testing.T) {
	for _, s := range []Status{StatusCancelled, StatusCompleted} {
		t.Run(string(s), func(t *testing.T) {
			api := backend(map[string]Status{"o1": s})
			w := NewWorkflow(api, testTransformer, nil)
			_, err := w.FetchDetail(context.Background(), "o1")
			require.NoError(t, err)
			before, _ := w.Current()

			err = w.Pay(context.Background(), "o1")

			assert.ErrorIs(t, err, apierr.ErrInvalidTransition)
			assert.Empty(t, api.actions)
			after, _ := w.Current()
			assert.Equal(t, before, after)
		})
	}
}

func TestPayUpdatesCurrentAndRefreshes(t *testing.T) {
	api := backend(map[string]Status{"o1": StatusPendingPayment, "o2": StatusPendingPayment})
	w := NewWorkflow(api, testTransformer, nil)
	w.now = func() time.Time { return time.Date(2024, 1, 6, 8, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	_, err := w.Fetch(ctx, Query{Page: 1})
	require.NoError(t, err)
	_, err = w.FetchDetail(ctx, "o1")
	require.NoError(t, err)

	require.NoError(t, w.Pay(ctx, "o1"))

	cur, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, StatusPaid, cur.Status)
	assert.Equal(t, "Paid", cur.StatusLabel)
	assert.Equal(t, "2024-01-06 08:30:00", cur.PayTime)
	assert.Equal(t, []string{"pay:o1"}, api.actions)
	assert.Len(t, api.lists, 2)
	assert.Equal(t, Counts{Pending: 1, Paid: 1}, w.Counts())

	// list row for o2 is known to be pending; completing it is rejected
	err = w.Complete(ctx, "o2")
	assert.ErrorIs(t, err, apierr.ErrInvalidTransition)

	require.NoError(t, w.Complete(ctx, "o1"))
	cur, _ = w.Current()
	assert.Equal(t, StatusCompleted, cur.Status)
	assert.NotEmpty(t, cur.CompleteTime)
}

func TestTransitionOnUnknownOrderGoesToBackend(t *testing.T) {
	api := backend(map[string]Status{"o3": StatusPendingPayment})
	w := NewWorkflow(api, testTransformer, nil)

	require.NoError(t, w.Cancel(context.Background(), "o3"))
	assert.Equal(t, []string{"cancel:o3"}, api.actions)
	_, ok := w.Current()
	assert.False(t, ok)
}

func TestTransitionBackendRejection(t *testing.T) {
	api := backend(map[string]Status{"o1": StatusPendingPayment})
	api.actionFn = func(string, string) error {
		return apierr.Business("/order/o1/pay", 200, 409, "", "订单状态不允许支付")
	}
	w := NewWorkflow(api, testTransformer, nil)
	_, err := w.FetchDetail(context.Background(), "o1")
	require.NoError(t, err)

	err = w.Pay(context.Background(), "o1")

	assert.ErrorIs(t, err, apierr.ErrInvalidTransition)
	assert.Equal(t, "the order status does not allow this action", apierr.Display(err))
	cur, _ := w.Current()
	assert.Equal(t, StatusPendingPayment, cur.Status)
	assert.Empty(t, api.lists)
}

func TestRefreshFailureAfterTransitionIsNotReturned(t *testing.T) {
	api := backend(map[string]Status{"o1": StatusPendingPayment})
	api.listFn = func(context.Context, dto.OrderQuery) (dto.OrderPage, error) {
		return dto.OrderPage{}, errors.New("connection reset")
	}
	w := NewWorkflow(api, testTransformer, nil)

	assert.NoError(t, w.Pay(context.Background(), "o1"))
	assert.Error(t, w.LastError())
}

func TestFilterAndPaging(t *testing.T) {
	api := &fakeAPI{listFn: func(_ context.Context, q dto.OrderQuery) (dto.OrderPage, error) {
		return dto.OrderPage{Pagination: dto.Pagination{
			Page: q.Page, Size: q.Size, Total: 25, TotalPages: 3,
			HasNext: q.Page < 3, HasPrev: q.Page > 1,
		}}, nil
	}}
	w := NewWorkflow(api, testTransformer, nil)
	ctx := context.Background()

	_, err := w.FilterByStatus(ctx, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, dto.OrderQuery{Status: "PAID", Page: 1, Size: DefaultPageSize}, api.lists[0])

	_, _ = w.NextPage(ctx)
	assert.Equal(t, dto.OrderQuery{Status: "PAID", Page: 2, Size: DefaultPageSize}, api.lists[1])

	_, _ = w.GoToPage(ctx, 3)
	_, _ = w.NextPage(ctx) // no next page
	_, _ = w.GoToPage(ctx, 7)
	assert.Len(t, api.lists, 3)

	_, _ = w.PrevPage(ctx)
	assert.Equal(t, 2, w.Cursor().Page)

	_, _ = w.ChangePageSize(ctx, 20)
	assert.Equal(t, dto.OrderQuery{Status: "PAID", Page: 1, Size: 20}, api.lists[len(api.lists)-1])

	_, _ = w.FilterByStatus(ctx, "")
	assert.Equal(t, Status(""), w.Filter())
	assert.Equal(t, "", api.lists[len(api.lists)-1].Status)

	w.Reset()
	assert.Equal(t, DefaultPageSize, w.Cursor().Size)
	assert.Empty(t, w.Orders())
}

func TestFetchDetailNotFound(t *testing.T) {
	w := NewWorkflow(backend(map[string]Status{}), testTransformer, nil)

	_, err := w.FetchDetail(context.Background(), "nope")
	assert.ErrorIs(t, err, apierr.ErrNotFound)
	assert.Equal(t, "order.detail", err.(*apierr.Error).Op)

	_, err = w.FetchDetail(context.Background(), " ")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))
}

func TestFindAndClear(t *testing.T) {
	w := NewWorkflow(backend(map[string]Status{"o1": StatusPaid}), testTransformer, nil)
	ctx := context.Background()
	_, err := w.Fetch(ctx, Query{})
	require.NoError(t, err)
	_, err = w.FetchDetail(ctx, "o1")
	require.NoError(t, err)

	s, ok := w.Find("o1")
	require.True(t, ok)
	assert.Equal(t, StatusPaid, s.Status)

	w.ClearCurrent()
	_, ok = w.Current()
	assert.False(t, ok)
}
