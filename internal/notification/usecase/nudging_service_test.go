package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rec-webapp-backend/internal/httperr"
	"rec-webapp-backend/pkg/nudging"
)

// fakeNudging emulates the upstream nudging service.
type fakeNudging struct {
	mu         sync.Mutex
	items      []map[string]interface{}
	markedRead []string
	failMark   bool
}

func (f *fakeNudging) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/notifications":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(f.items)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/read"):
			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/notifications/"), "/read")
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.failMark {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			known := false
			for _, item := range f.items {
				if item["id"] == id {
					known = true
				}
			}
			if !known {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			f.markedRead = append(f.markedRead, id)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/webpush/"):
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func item(id, severity string, read bool) map[string]interface{} {
	out := map[string]interface{}{
		"id":         id,
		"created_at": "2024-03-15T10:00:00Z",
		"title":      "title " + id,
		"body":       "body",
		"severity":   severity,
	}
	if read {
		out["read_at"] = "2024-03-15T11:00:00Z"
	}
	return out
}

func newNudgingService(t *testing.T, upstream *fakeNudging) (NotificationService, *fakeToggler) {
	t.Helper()
	server := httptest.NewServer(upstream.handler())
	t.Cleanup(server.Close)
	toggler := &fakeToggler{}
	return NewNudgingService(nudging.NewClient(server.URL), toggler), toggler
}

func TestNudgingList_TranslatesUpstreamShape(t *testing.T) {
	upstream := &fakeNudging{items: []map[string]interface{}{
		item("n1", "critical", false),
		item("n2", "unknown-severity", true),
	}}
	svc, _ := newNudgingService(t, upstream)

	items, err := svc.List(context.Background(), identity)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "critical", items[0].Severity)
	assert.Equal(t, "info", items[1].Severity)
	assert.NotNil(t, items[1].ReadAt)
}

func TestNudgingList_CapsAtFifty(t *testing.T) {
	upstream := &fakeNudging{}
	for i := 0; i < 60; i++ {
		upstream.items = append(upstream.items, item(fmt.Sprintf("n%d", i), "info", false))
	}
	svc, _ := newNudgingService(t, upstream)

	items, err := svc.List(context.Background(), identity)
	require.NoError(t, err)
	assert.Len(t, items, 50)
}

func TestNudgingMarkAllRead_OnlyUnread(t *testing.T) {
	upstream := &fakeNudging{items: []map[string]interface{}{
		item("n1", "info", false),
		item("n2", "info", true),
		item("n3", "info", false),
	}}
	svc, _ := newNudgingService(t, upstream)

	require.NoError(t, svc.MarkAllRead(context.Background(), identity))

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	assert.ElementsMatch(t, []string{"n1", "n3"}, upstream.markedRead)
}

func TestNudgingMarkAllRead_SurfacesFailure(t *testing.T) {
	upstream := &fakeNudging{
		items:    []map[string]interface{}{item("n1", "info", false)},
		failMark: true,
	}
	svc, _ := newNudgingService(t, upstream)

	assert.Error(t, svc.MarkAllRead(context.Background(), identity))
}

func TestNudgingMarkRead_UnknownIDIsNotFound(t *testing.T) {
	svc, _ := newNudgingService(t, &fakeNudging{})

	err := svc.MarkRead(context.Background(), identity, "missing")
	assert.ErrorIs(t, err, httperr.ErrNotFound)
}

func TestNudgingSubscribe_FlipsWebpushFlag(t *testing.T) {
	svc, toggler := newNudgingService(t, &fakeNudging{})

	payload := map[string]interface{}{"endpoint": "https://push.example.org/sub-1"}
	require.NoError(t, svc.Subscribe(context.Background(), identity, payload))
	require.NotNil(t, toggler.enabled)
	assert.True(t, *toggler.enabled)

	require.NoError(t, svc.Unsubscribe(context.Background(), identity, "https://push.example.org/sub-1"))
	assert.False(t, *toggler.enabled)
}
