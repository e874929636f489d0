package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lichlamviec/shift-scheduler/backend/internal/sheets"
)

func TestPushSendsPlainTextSyncAll(t *testing.T) {
	var gotType string
	var got sheets.PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	ds := sheets.NewDataset()
	ds[sheets.Employees.Field] = []sheets.Record{{"id": 1, "code": "ADMIN"}}
	if err := NewClient(0).Push(context.Background(), srv.URL, ds); err != nil {
		t.Fatalf("Push: %v", err)
	}

	if gotType != "text/plain" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if got.Action != sheets.ActionSyncAll {
		t.Errorf("action = %q", got.Action)
	}
	for _, table := range sheets.Tables {
		if !got.Data.Has(table.Field) {
			t.Errorf("push is missing collection %s", table.Field)
		}
	}
}

func TestPushFollowsRedirect(t *testing.T) {
	target := cannedRemote(t, `{"success":true}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	if err := NewClient(0).Push(context.Background(), srv.URL, sheets.NewDataset()); err != nil {
		t.Errorf("Push through redirect: %v", err)
	}
}

func TestPushErrors(t *testing.T) {
	t.Run("non json", func(t *testing.T) {
		srv := cannedRemote(t, "<html>"+strings.Repeat("đăng nhập ", 50)+"</html>")
		err := NewClient(0).Push(context.Background(), srv.URL, sheets.NewDataset())

		var nonJSON *NonJSONError
		if !errors.As(err, &nonJSON) {
			t.Fatalf("error = %v, want *NonJSONError", err)
		}
		if n := len([]rune(nonJSON.Excerpt)); n != exportExcerptLen {
			t.Errorf("excerpt has %d characters, want %d", n, exportExcerptLen)
		}
	})

	t.Run("remote refusal", func(t *testing.T) {
		srv := cannedRemote(t, `{"success":false,"error":"Sheet bị khóa"}`)
		err := NewClient(0).Push(context.Background(), srv.URL, sheets.NewDataset())

		var remote *RemoteError
		if !errors.As(err, &remote) || remote.Message != "Sheet bị khóa" {
			t.Errorf("error = %v, want RemoteError", err)
		}
	})
}

func TestExcerpt(t *testing.T) {
	if got := excerpt("ngắn", 10); got != "ngắn" {
		t.Errorf("excerpt = %q", got)
	}
	if got := excerpt("Lịch làm việc", 4); got != "Lịch" {
		t.Errorf("excerpt = %q", got)
	}
}
