package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salesboard/internal/model"
)

func TestClientExport(t *testing.T) {
	path := model.ActionPath{ID: "path-1", Name: "Enterprise Flow"}
	mapping := map[string]string{"title": "Subject"}

	t.Run("not configured", func(t *testing.T) {
		c := NewClient("", time.Second)
		if _, err := c.Export(context.Background(), path, mapping); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("err = %v, want ErrNotConfigured", err)
		}
	})

	t.Run("posts the path and mapping", func(t *testing.T) {
		var got ExportRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %s, want POST", r.Method)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("decode: %v", err)
			}
			json.NewEncoder(w).Encode(ExportResponse{Success: true, Message: "queued"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		resp, err := c.Export(context.Background(), path, mapping)
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if !resp.Success || resp.Message != "queued" {
			t.Errorf("resp = %+v", resp)
		}
		if got.Path.ID != "path-1" || got.FieldMapping["title"] != "Subject" {
			t.Errorf("request = %+v", got)
		}
	})

	t.Run("empty body counts as success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		resp, err := c.Export(context.Background(), path, mapping)
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if !resp.Success {
			t.Error("empty-body success not tolerated")
		}
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rejected", http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		if _, err := c.Export(context.Background(), path, mapping); err == nil {
			t.Error("expected an error for a 502 response")
		}
	})
}
