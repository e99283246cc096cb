package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/enums"
	"github.com/wallacemaster800-spec/BAYEKVERSE-PAGINA-sub000/internal/domain/model"
)

const testServiceKey = "service-role-key"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL, ServiceKey: testServiceKey, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestSeriesRepoFindByIDQueriesWithServiceKey(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/rest/v1/series" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("apikey"); got != testServiceKey {
			t.Errorf("unexpected apikey header: %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testServiceKey {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		query := r.URL.Query()
		if got := query.Get("id"); got != "eq.s-1" {
			t.Errorf("unexpected id filter: %q", got)
		}
		if got := query.Get("select"); got != "id,title,price" {
			t.Errorf("unexpected select: %q", got)
		}
		if got := query.Get("limit"); got != "1" {
			t.Errorf("unexpected limit: %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"s-1","title":"Temporada 1","price":1500.50}]`))
	})

	series, err := NewSeriesRepo(client).FindByID(context.Background(), " s-1 ")
	if err != nil {
		t.Fatalf("find series: %v", err)
	}
	if series.ID != "s-1" || series.Title != "Temporada 1" {
		t.Fatalf("unexpected series: %+v", series)
	}
	if !series.Price.Valid || series.Price.Decimal.String() != "1500.5" {
		t.Fatalf("unexpected price: %+v", series.Price)
	}
	if !series.Purchasable() {
		t.Fatalf("expected series to be purchasable")
	}
}

func TestSeriesRepoFindByIDNullPrice(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":7,"title":null,"price":null}]`))
	})

	series, err := NewSeriesRepo(client).FindByID(context.Background(), "7")
	if err != nil {
		t.Fatalf("find series: %v", err)
	}
	if series.ID != "7" {
		t.Fatalf("numeric id should render as text: %q", series.ID)
	}
	if series.Price.Valid || series.Purchasable() {
		t.Fatalf("null price should not be purchasable: %+v", series.Price)
	}
}

func TestSeriesRepoFindByIDNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := NewSeriesRepo(client).FindByID(context.Background(), "missing")
	if !errors.Is(err, ErrSeriesNotFound) {
		t.Fatalf("expected ErrSeriesNotFound, got %v", err)
	}
}

func TestSeriesRepoSurfacesHTTPErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	})

	_, err := NewSeriesRepo(client).FindByID(context.Background(), "s-1")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusUnauthorized || reqErr.Table != "series" {
		t.Fatalf("unexpected request error: %+v", reqErr)
	}
}

func TestPurchaseRepoInsertPostsMinimalRow(t *testing.T) {
	t.Parallel()

	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/compras" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Prefer"); got != "return=minimal" {
			t.Errorf("unexpected Prefer header: %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected Content-Type: %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	})

	repo := NewPurchaseRepo(client)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	purchase, err := repo.Insert(context.Background(), model.Purchase{
		UserID:    "user-1",
		SeriesID:  "series-1",
		PaymentID: "pay-1",
		Provider:  enums.PaymentProviderMercadoPago,
	})
	if err != nil {
		t.Fatalf("insert purchase: %v", err)
	}

	if purchase.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !purchase.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected created_at: %s", purchase.CreatedAt)
	}
	if got["id"] != purchase.ID || got["user_id"] != "user-1" || got["series_id"] != "series-1" || got["payment_id"] != "pay-1" {
		t.Fatalf("unexpected row: %v", got)
	}
	if got["provider"] != "mercadopago" {
		t.Fatalf("unexpected provider: %v", got["provider"])
	}
}

func TestPurchaseRepoInsertRejectsMissingIdentifiers(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})

	if _, err := NewPurchaseRepo(client).Insert(context.Background(), model.Purchase{UserID: "u"}); err == nil {
		t.Fatalf("expected error for missing series id")
	}
}

func TestNewClientRequiresURLAndKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "https://db.example"}); err == nil {
		t.Fatalf("expected error without service key")
	}
	if _, err := NewClient(Config{ServiceKey: "k"}); err == nil {
		t.Fatalf("expected error without url")
	}
}
