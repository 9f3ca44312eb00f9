package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// adminCall records one request seen by the fake admin endpoint
type adminCall struct {
	method string
	path   string
	body   map[string]interface{}
}

func TestLocationAdminCalls(t *testing.T) {
	var calls []adminCall
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cleanings/locations/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, adminCall{r.Method, r.URL.Path, body})

		if r.Header.Get("Authorization") != "Bearer admin-access" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Location{ID: 3, Name: "Gate B", Status: "active"})
		case http.MethodPatch:
			_ = json.NewEncoder(w).Encode(Location{ID: 3, Name: "Gate B", Status: "inactive"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("admin-access", "admin-refresh")
	c, _ := New(ts.URL, store)
	ctx := context.Background()

	created, err := c.CreateLocation(ctx, LocationInput{Name: "Gate B"})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	if created.ID != 3 {
		t.Errorf("created ID = %d, want 3", created.ID)
	}

	updated, err := c.UpdateLocation(ctx, 3, LocationInput{Status: "inactive"})
	if err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	if updated.Status != "inactive" {
		t.Errorf("updated status = %q, want inactive", updated.Status)
	}

	if err := c.DeleteLocation(ctx, 3); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}

	want := []adminCall{
		{http.MethodPost, "/api/cleanings/locations/", map[string]interface{}{"name": "Gate B"}},
		{http.MethodPatch, "/api/cleanings/locations/3/", map[string]interface{}{"status": "inactive"}},
		{http.MethodDelete, "/api/cleanings/locations/3/", nil},
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %d, want %d", len(calls), len(want))
	}
	for i, w := range want {
		if calls[i].method != w.method || calls[i].path != w.path {
			t.Errorf("call %d = %s %s, want %s %s", i, calls[i].method, calls[i].path, w.method, w.path)
		}
		for field, value := range w.body {
			if calls[i].body[field] != value {
				t.Errorf("call %d body[%s] = %v, want %v", i, field, calls[i].body[field], value)
			}
		}
	}
}

func TestChecklistItemAdminCalls(t *testing.T) {
	var calls []adminCall
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cleanings/checklist-items/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, adminCall{r.Method, r.URL.Path, body})

		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(ChecklistItem{ID: 8, Location: 2, TitleEN: "Wipe rails"})
		case http.MethodPatch:
			_ = json.NewEncoder(w).Encode(ChecklistItem{ID: 8, Location: 2, TitleEN: "Wipe handrails"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	store := NewMemoryTokenStore()
	_ = store.SetPair("admin-access", "admin-refresh")
	c, _ := New(ts.URL, store)
	ctx := context.Background()

	item, err := c.CreateChecklistItem(ctx, ChecklistItemInput{Location: 2, TitleEN: "Wipe rails"})
	if err != nil {
		t.Fatalf("CreateChecklistItem: %v", err)
	}
	if item.ID != 8 {
		t.Errorf("created ID = %d, want 8", item.ID)
	}

	if _, err := c.UpdateChecklistItem(ctx, 8, ChecklistItemInput{TitleEN: "Wipe handrails"}); err != nil {
		t.Fatalf("UpdateChecklistItem: %v", err)
	}
	if err := c.DeleteChecklistItem(ctx, 8); err != nil {
		t.Fatalf("DeleteChecklistItem: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(calls))
	}
	if calls[0].body["location"] != float64(2) || calls[0].body["title_en"] != "Wipe rails" {
		t.Errorf("create body = %v", calls[0].body)
	}
	if calls[1].path != "/api/cleanings/checklist-items/8/" {
		t.Errorf("update path = %s", calls[1].path)
	}
	if calls[2].method != http.MethodDelete {
		t.Errorf("last call method = %s, want DELETE", calls[2].method)
	}
}
