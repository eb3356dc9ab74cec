package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

// newStubServer answers every request with status and body and records what it saw.
func newStubServer(t *testing.T, status int, body string) (*httptest.Server, <-chan recordedRequest) {
	t.Helper()
	ch := make(chan recordedRequest, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     string(b),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := NewClient("backend", baseURL+"/api", &http.Client{Timeout: 5 * time.Second}, opts...)
	require.NoError(t, err)
	return c
}

type fakeObserver struct {
	routes   []string
	outcomes []string
}

func (f *fakeObserver) ObserveRequest(_, _, route, outcome string, _ time.Duration) {
	f.routes = append(f.routes, route)
	f.outcomes = append(f.outcomes, outcome)
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	_, err := NewClient("backend", "localhost:8080", nil)
	assert.Error(t, err)

	_, err = NewClient("backend", "://bad", nil)
	assert.Error(t, err)
}

func TestDoKeepsBasePathAndSetsHeaders(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `{"code":200,"message":"ok","data":{"userId":"u1","items":[],"totalQuantity":0,"totalAmount":0}}`)
	c := newTestClient(t, srv.URL)

	ctx := middleware.WithCorrelationID(context.Background(), "cid-1")
	cart, err := NewCartClient(c).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)

	got := <-ch
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/cart", got.Path)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "cid-1", got.Header.Get(middleware.HeaderCorrelationID))
}

func TestDoGeneratesCorrelationID(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `{"code":200,"data":null}`)
	c := newTestClient(t, srv.URL)

	require.NoError(t, NewCartClient(c).Clear(context.Background()))

	got := <-ch
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/api/cart/clear", got.Path)
	assert.NotEmpty(t, got.Header.Get(middleware.HeaderCorrelationID))
}

func TestDoFailureClasses(t *testing.T) {
	tests := map[string]struct {
		status   int
		body     string
		wantKind apierr.Kind
		wantCode apierr.Code
		wantMsg  string
	}{
		"http status without body": {
			status: http.StatusBadGateway, body: ``,
			wantKind: apierr.KindTransport, wantCode: apierr.CodeUnavailable, wantMsg: "HTTP 502 error",
		},
		"http status with envelope": {
			status: http.StatusNotFound, body: `{"code":404,"message":"商品不存在"}`,
			wantKind: apierr.KindTransport, wantCode: apierr.CodeNotFound, wantMsg: "商品不存在",
		},
		"business code": {
			status: http.StatusOK, body: `{"code":409,"message":"库存不足"}`,
			wantKind: apierr.KindBusiness, wantCode: apierr.CodeConflict, wantMsg: "库存不足",
		},
		"structured error code wins": {
			status: http.StatusOK, body: `{"code":500,"message":"x","errorCode":"INSUFFICIENT_STOCK"}`,
			wantKind: apierr.KindBusiness, wantCode: apierr.CodeInsufficientStock, wantMsg: "x",
		},
		"undecodable body": {
			status: http.StatusOK, body: `<html>`,
			wantKind: apierr.KindProtocol, wantCode: apierr.CodeUnknown, wantMsg: "malformed response body",
		},
		"undecodable data": {
			status: http.StatusOK, body: `{"code":200,"data":"not-a-cart"}`,
			wantKind: apierr.KindProtocol, wantCode: apierr.CodeUnknown, wantMsg: "malformed response body",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv, _ := newStubServer(t, tt.status, tt.body)
			obs := &fakeObserver{}
			c := newTestClient(t, srv.URL, WithObserver(obs))

			_, err := NewCartClient(c).Get(context.Background())
			require.Error(t, err)

			var ae *apierr.Error
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, tt.wantKind, ae.Kind)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, tt.wantMsg, ae.Message)
			assert.Equal(t, []string{string(tt.wantKind)}, obs.outcomes)
		})
	}
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	err := NewCartClient(c).Add(context.Background(), "p1", 1)

	require.Error(t, err)
	assert.Equal(t, apierr.KindTransport, apierr.KindOf(err))
	assert.ErrorIs(t, err, apierr.ErrUnavailable)
}

func TestDoCanceledContext(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusOK, `{"code":200}`)
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCartClient(c).Clear(ctx)
	assert.Equal(t, apierr.CodeCanceled, apierr.CodeOf(err))
}

func TestCartClientBodies(t *testing.T) {
	tests := map[string]struct {
		call       func(*CartClient) error
		wantMethod string
		wantPath   string
		wantBody   string
	}{
		"add": {
			call:       func(cc *CartClient) error { return cc.Add(context.Background(), "p1", 2) },
			wantMethod: http.MethodPost, wantPath: "/api/cart/add",
			wantBody: `{"productId":"p1","quantity":2}`,
		},
		"update": {
			call:       func(cc *CartClient) error { return cc.UpdateQuantity(context.Background(), "p1", 5) },
			wantMethod: http.MethodPut, wantPath: "/api/cart/update",
			wantBody: `{"productId":"p1","quantity":5}`,
		},
		"select": {
			call:       func(cc *CartClient) error { return cc.UpdateSelection(context.Background(), []string{"a", "b"}, false) },
			wantMethod: http.MethodPut, wantPath: "/api/cart/select",
			wantBody: `{"productIds":["a","b"],"selected":false}`,
		},
		"remove sends a body": {
			call:       func(cc *CartClient) error { return cc.Remove(context.Background(), []string{"a"}) },
			wantMethod: http.MethodDelete, wantPath: "/api/cart/remove",
			wantBody: `{"productIds":["a"]}`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv, ch := newStubServer(t, http.StatusOK, `{"code":200,"message":"ok","data":null}`)
			cc := NewCartClient(newTestClient(t, srv.URL))

			require.NoError(t, tt.call(cc))

			got := <-ch
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.JSONEq(t, tt.wantBody, got.Body)
			assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
		})
	}
}

func TestProductClientList(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `{"code":200,"data":{"products":[{"id":"p1","name":"Kettle","price":129.5}],"total":1,"page":1,"size":8,"totalPages":1}}`)
	obs := &fakeObserver{}
	pc := NewProductClient(newTestClient(t, srv.URL, WithObserver(obs)))

	page, err := pc.List(context.Background(), ProductQuery{Page: 1, Size: 8, Filters: map[string]string{"category": "home", "brand": ""}})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.True(t, decimal.RequireFromString("129.5").Equal(page.Products[0].Price))

	got := <-ch
	assert.Equal(t, "/api/product/list", got.Path)
	assert.Equal(t, "category=home&page=1&size=8", got.RawQuery)

	_, _ = pc.Get(context.Background(), "p1")
	got = <-ch
	assert.Equal(t, "/api/product/p1", got.Path)
	assert.Equal(t, []string{"/product/list", "/product/{id}"}, obs.routes)
}

func TestOrderClientPaths(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `{"code":200,"data":{"orderId":"o1","status":"PENDING_PAYMENT"}}`)
	oc := NewOrderClient(newTestClient(t, srv.URL))
	ctx := context.Background()

	o, err := oc.Create(ctx, dto.CreateOrderRequest{ProductIDs: []string{"p1"}, Remark: "gift"})
	require.NoError(t, err)
	assert.Equal(t, "o1", o.OrderID)
	got := <-ch
	assert.Equal(t, "/api/order/create", got.Path)
	assert.JSONEq(t, `{"productIds":["p1"],"remark":"gift"}`, got.Body)

	_, _ = oc.List(ctx, dto.OrderQuery{Status: "PAID", Page: 2, Size: 10})
	got = <-ch
	assert.Equal(t, "/api/order/list", got.Path)
	assert.Equal(t, "page=2&size=10&status=PAID", got.RawQuery)

	require.NoError(t, oc.Pay(ctx, "o1"))
	got = <-ch
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/order/o1/pay", got.Path)

	require.NoError(t, oc.Cancel(ctx, "o1"))
	assert.Equal(t, "/api/order/o1/cancel", (<-ch).Path)
	require.NoError(t, oc.Complete(ctx, "o1"))
	assert.Equal(t, "/api/order/o1/complete", (<-ch).Path)
}

func TestStatisticsClientQueries(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `{"code":200,"data":{}}`)
	sc := NewStatisticsClient(newTestClient(t, srv.URL))
	ctx := context.Background()

	_, err := sc.DailySales(ctx, "20240105")
	require.NoError(t, err)
	got := <-ch
	assert.Equal(t, "/api/statistics/daily-sales", got.Path)
	assert.Equal(t, "date=20240105", got.RawQuery)

	_, err = sc.DailyOrders(ctx, "2024-01-05")
	assert.Equal(t, apierr.KindValidation, apierr.KindOf(err))

	_, err = sc.TopProducts(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, "limit=20", (<-ch).RawQuery)

	_, err = sc.TopProducts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "limit=3", (<-ch).RawQuery)
}

func TestStatisticsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			w.WriteHeader(http.StatusNotAcceptable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "event: connected\ndata: ok\n\n")
	}))
	defer srv.Close()

	body, err := NewStatisticsClient(newTestClient(t, srv.URL)).Stream(context.Background(), "")
	require.NoError(t, err)
	defer body.Close()

	b, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "event: connected\ndata: ok\n\n", string(b))
}

func TestStatisticsStreamRejectsNon200(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusServiceUnavailable, ``)

	_, err := NewStatisticsClient(newTestClient(t, srv.URL)).Stream(context.Background(), "")
	assert.ErrorIs(t, err, apierr.ErrUnavailable)
}

func TestCheckHealth(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusOK, `{"code":200,"data":{"products":[]}}`)
	res := CheckHealth(context.Background(), newTestClient(t, srv.URL))
	assert.True(t, res.OK)
	assert.Empty(t, res.Error)

	bad, _ := newStubServer(t, http.StatusInternalServerError, ``)
	res = CheckHealth(context.Background(), newTestClient(t, bad.URL))
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)
}
