/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFetchScheduledUploads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/uploads" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "scheduled" {
			t.Errorf("status query = %q, want scheduled", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uploads":[
			{"id":"v1","title":"First","publish_at":"2025-11-15T12:00:00.000Z"},
			{"id":"v2","title":"Second","publish_at":"2025-11-15T14:00:00.000Z"}
		]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "token-123", zerolog.Nop())
	uploads, err := client.FetchScheduledUploads(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(uploads) != 2 {
		t.Fatalf("got %d uploads, want 2", len(uploads))
	}
	if uploads[0].ID != "v1" || uploads[0].PublishAt != "2025-11-15T12:00:00.000Z" {
		t.Fatalf("unexpected first upload: %+v", uploads[0])
	}
}

func TestFetchScheduledUploadsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", zerolog.Nop())
	if _, err := client.FetchScheduledUploads(context.Background()); err == nil {
		t.Fatal("expected error on 500 response")
	}
}

func TestScheduleUploadPostsWireFormat(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", zerolog.Nop())
	publishAt := time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)
	if err := client.ScheduleUpload(context.Background(), "vid-42", publishAt); err != nil {
		t.Fatalf("schedule upload: %v", err)
	}

	if gotPath != "/api/v1/uploads/vid-42/schedule" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotBody["publish_at"] != "2025-11-15T12:00:00.000Z" {
		t.Fatalf("publish_at = %q, want fixed millisecond RFC 3339", gotBody["publish_at"])
	}
}

func TestScheduleUploadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", zerolog.Nop())
	if err := client.ScheduleUpload(context.Background(), "vid-42", time.Now()); err == nil {
		t.Fatal("expected error on 409 response")
	}
}
