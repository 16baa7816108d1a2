package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Lixing-Zhang/food-dashboard/internal/config"
	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/Lixing-Zhang/food-dashboard/internal/realtime"
	"github.com/Lixing-Zhang/food-dashboard/internal/repository"
	"github.com/Lixing-Zhang/food-dashboard/internal/router"
	"github.com/Lixing-Zhang/food-dashboard/internal/service"
	"github.com/Lixing-Zhang/food-dashboard/pkg/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

type testBackend struct {
	server *httptest.Server
	hub    *realtime.Hub
}

func newTestBackend(t *testing.T, auth config.AuthConfig, seed []models.Food) *testBackend {
	t.Helper()

	log := logger.Discard()
	hub := realtime.NewHub(log)
	go hub.Run()

	repo := repository.NewInMemoryFoodRepository(seed)
	svc := service.NewFoodService(repo, hub, log)
	srv := httptest.NewServer(router.New(auth, svc, hub, log))

	t.Cleanup(func() {
		srv.Close()
		hub.Close()
	})
	return &testBackend{server: srv, hub: hub}
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	c, err := New(baseURL, opts...)
	if err != nil {
		t.Fatalf("New() unexpected error = %v", err)
	}
	return c
}

func foodIDs(foods []models.Food) []int64 {
	out := make([]int64, len(foods))
	for i, f := range foods {
		out[i] = f.ID
	}
	return out
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"localhost:3333", "ftp://example.com", "://bad"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) expected error, got nil", raw)
		}
	}
}

func TestClient_List(t *testing.T) {
	backend := newTestBackend(t, config.AuthConfig{}, repository.DefaultFoods())
	client := newTestClient(t, backend.server.URL)

	foods, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error = %v", err)
	}

	if diff := cmp.Diff([]int64{1, 2, 3}, foodIDs(foods)); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ListEmptyCollection(t *testing.T) {
	backend := newTestBackend(t, config.AuthConfig{}, nil)
	client := newTestClient(t, backend.server.URL)

	foods, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error = %v", err)
	}
	if foods == nil || len(foods) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", foods)
	}
}

func TestClient_CreateForcesAvailable(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/foods" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get(requestIDHeader) == "" {
			t.Error("missing request ID header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":2,"name":"Pie","price":"7.00","available":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	created, err := client.Create(context.Background(), models.FoodInput{
		Name:  "Pie",
		Price: decimal.RequireFromString("7"),
	})
	if err != nil {
		t.Fatalf("Create() unexpected error = %v", err)
	}

	if got["available"] != true {
		t.Errorf("request body available = %v, want true", got["available"])
	}
	if _, ok := got["id"]; ok {
		t.Error("request body must not carry an id")
	}
	if created.ID != 2 || !created.Available {
		t.Errorf("unexpected created food: %+v", created)
	}
}

func TestClient_UpdateAndDelete(t *testing.T) {
	backend := newTestBackend(t, config.AuthConfig{}, repository.DefaultFoods())
	client := newTestClient(t, backend.server.URL)
	ctx := context.Background()

	updated, err := client.Update(ctx, 2, models.Food{ID: 2, Name: "Veggie Deluxe", Available: true})
	if err != nil {
		t.Fatalf("Update() unexpected error = %v", err)
	}
	if updated.Name != "Veggie Deluxe" {
		t.Errorf("Update() name = %s", updated.Name)
	}

	if err := client.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete() unexpected error = %v", err)
	}

	foods, _ := client.List(ctx)
	if diff := cmp.Diff([]int64{2, 3}, foodIDs(foods)); diff != "" {
		t.Errorf("collection mismatch after delete (-want +got):\n%s", diff)
	}
}

func TestClient_ErrorResponses(t *testing.T) {
	backend := newTestBackend(t, config.AuthConfig{}, repository.DefaultFoods())
	client := newTestClient(t, backend.server.URL)
	ctx := context.Background()

	err := client.Delete(ctx, 999)
	if !IsNotFound(err) {
		t.Fatalf("Delete() error = %v, want not found", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Food not found" {
		t.Errorf("APIError.Message = %q", apiErr.Message)
	}
	if apiErr.RequestID == "" {
		t.Error("APIError.RequestID is empty")
	}

	_, err = client.Create(ctx, models.FoodInput{})
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Create() with blank name error = %v, want 400", err)
	}
}

func TestClient_APIKey(t *testing.T) {
	backend := newTestBackend(t, config.AuthConfig{APIKeys: []string{"apitest"}}, repository.DefaultFoods())
	ctx := context.Background()

	anonymous := newTestClient(t, backend.server.URL)
	if _, err := anonymous.List(ctx); err == nil {
		t.Error("expected an error without API key")
	}

	authed := newTestClient(t, backend.server.URL, WithAPIKey("apitest"))
	if _, err := authed.List(ctx); err != nil {
		t.Errorf("List() with API key unexpected error = %v", err)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newTestClient(t, url, WithTimeout(time.Second))
	if _, err := client.List(context.Background()); err == nil {
		t.Error("expected an error from a closed server")
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.List(context.Background()); err == nil {
		t.Error("expected a decode error")
	}
}

func TestClient_Subscribe(t *testing.T) {
	backend := newTestBackend(t, config.AuthConfig{}, repository.DefaultFoods())
	client := newTestClient(t, backend.server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := client.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() unexpected error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for backend.hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := client.Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete() unexpected error = %v", err)
	}

	select {
	case ev := <-events:
		if ev.Type != models.EventFoodDeleted {
			t.Errorf("event type = %s, want %s", ev.Type, models.EventFoodDeleted)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	cancel()
	for range events {
	}
}

func TestClient_SubscribeEndsWhenServerHangsUp(t *testing.T) {
	backend := newTestBackend(t, config.AuthConfig{}, repository.DefaultFoods())
	client := newTestClient(t, backend.server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := client.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() unexpected error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for backend.hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	backend.hub.Close()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					t.Fatal("context ended before the stream")
				}
				return
			}
		case <-timeout:
			t.Fatal("event stream still open after the server hung up")
		}
	}
}
