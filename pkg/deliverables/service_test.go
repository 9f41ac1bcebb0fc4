package deliverables

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/luminamkt/agencyhub/pkg/notify"
	"github.com/luminamkt/agencyhub/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeERP struct {
	mu       sync.Mutex
	seq      int
	docs     map[string]map[string]any
	failPuts bool
}

func newFakeERP() *fakeERP {
	return &fakeERP{docs: make(map[string]map[string]any)}
}

func (f *fakeERP) setFailPuts(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPuts = fail
}

func (f *fakeERP) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/resource/"), "/")
		id := ""
		if len(parts) > 1 {
			id = parts[1]
		}

		switch {
		case r.Method == http.MethodPost:
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			f.seq++
			name := fmt.Sprintf("TASK-%04d", f.seq)
			fields["name"] = name
			f.docs[name] = fields
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"name": name}})

		case r.Method == http.MethodGet && id != "":
			doc, ok := f.docs[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"data": doc})

		case r.Method == http.MethodGet:
			list := make([]map[string]any, 0, len(f.docs))
			for _, doc := range f.docs {
				list = append(list, doc)
			}
			json.NewEncoder(w).Encode(map[string]any{"data": list})

		case r.Method == http.MethodPut:
			if f.failPuts {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			doc, ok := f.docs[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			for k, v := range fields {
				doc[k] = v
			}
			json.NewEncoder(w).Encode(map[string]any{"data": doc})

		case r.Method == http.MethodDelete:
			delete(f.docs, id)
			json.NewEncoder(w).Encode(map[string]any{"data": "ok"})
		}
	}
}

func newService(t *testing.T) (*Service, *fakeERP, *store.Memory) {
	t.Helper()
	fake := newFakeERP()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	repo := store.NewMemory()
	return NewService(erp.NewClient(srv.URL, "k", "s", nil), repo, notify.NewRelay(nil), nil), fake, repo
}

func TestDeliverableApprovalFlow(t *testing.T) {
	svc, fake, _ := newService(t)
	ctx := context.Background()

	t.Run("Success - Create embeds metadata in the remote task", func(t *testing.T) {
		d, err := svc.Create(ctx, models.CreateDeliverableRequest{
			Title:      "September reel v1",
			ClientID:   "CUST-0001",
			ClientName: "ACME",
			Type:       "video",
			URL:        "https://cdn.example.com/reel-v1.mp4",
		})

		require.NoError(t, err)
		assert.Equal(t, models.DeliverableStatusPending, d.Status)
		assert.False(t, d.SyncPending)

		doc := fake.docs[d.ID]
		require.NotNil(t, doc)
		assert.Equal(t, "September reel v1", doc["subject"])
		assert.Equal(t, "Open", doc["status"])
		assert.Equal(t, "CUST-0001", doc["customer"])

		var meta map[string]any
		description, _ := doc["description"].(string)
		require.NoError(t, json.Unmarshal([]byte(description), &meta))
		assert.Equal(t, "https://cdn.example.com/reel-v1.mp4", meta["url"])
		assert.Equal(t, "pending", meta["app_status"])
		assert.Equal(t, "ACME", meta["clientName"])
	})

	t.Run("Success - Changes requested appends feedback", func(t *testing.T) {
		list, err := svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		id := list[0].ID

		d, err := svc.UpdateStatus(ctx, id, models.UpdateDeliverableStatusRequest{
			Status:   models.DeliverableStatusChangesRequested,
			Feedback: &models.Feedback{Comment: "logo is too small", Author: "ACME"},
		})

		require.NoError(t, err)
		assert.Equal(t, models.DeliverableStatusChangesRequested, d.Status)
		require.Len(t, d.Feedback, 1)
		assert.Equal(t, "logo is too small", d.Feedback[0].Comment)
		assert.NotEmpty(t, d.Feedback[0].Date)

		assert.Equal(t, "Working", fake.docs[id]["status"])
	})

	t.Run("Success - Approval keeps earlier feedback intact", func(t *testing.T) {
		list, err := svc.List(ctx, "")
		require.NoError(t, err)
		id := list[0].ID

		d, err := svc.UpdateStatus(ctx, id, models.UpdateDeliverableStatusRequest{
			Status:   models.DeliverableStatusApproved,
			Feedback: &models.Feedback{Comment: "much better now", Author: "ACME"},
		})

		require.NoError(t, err)
		assert.Equal(t, models.DeliverableStatusApproved, d.Status)
		require.Len(t, d.Feedback, 2)
		assert.Equal(t, "logo is too small", d.Feedback[0].Comment)
		assert.Equal(t, "much better now", d.Feedback[1].Comment)

		assert.Equal(t, "Completed", fake.docs[id]["status"])
	})

	t.Run("Success - Reloading resolves status from metadata", func(t *testing.T) {
		list, err := svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 1)

		got := list[0]
		assert.Equal(t, models.DeliverableStatusApproved, got.Status)
		assert.Equal(t, "September reel v1", got.Title)
		assert.Equal(t, "ACME", got.ClientName)
		require.Len(t, got.Feedback, 2)
	})
}

func TestDeliverableStatusFromRemoteOnly(t *testing.T) {
	t.Run("Success - Metadata without app_status falls back to remote status", func(t *testing.T) {
		svc, fake, _ := newService(t)

		fake.docs["TASK-0042"] = map[string]any{
			"name":        "TASK-0042",
			"subject":     "Banner set",
			"description": `{"url":"https://cdn.example.com/banner.png"}`,
			"status":      "Working",
			"customer":    "CUST-0001",
		}

		d, err := svc.Get(context.Background(), "TASK-0042")

		require.NoError(t, err)
		assert.Equal(t, models.DeliverableStatusChangesRequested, d.Status)
		assert.Equal(t, "https://cdn.example.com/banner.png", d.URL)
	})
}

func TestDeliverableListSkipsContentTasks(t *testing.T) {
	t.Run("Success - Tag-encoded tasks are not deliverables", func(t *testing.T) {
		svc, fake, _ := newService(t)

		fake.docs["TASK-0001"] = map[string]any{
			"name":        "TASK-0001",
			"subject":     "Launch Promo",
			"description": "[TYPE: reel]\n[PLATFORMS: instagram]\n\nBig day tomorrow",
			"status":      "Open",
			"customer":    "CUST-0001",
		}

		list, err := svc.List(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestDeliverableUpdateOutage(t *testing.T) {
	svc, fake, repo := newService(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, models.CreateDeliverableRequest{
		Title:      "October reel v2",
		ClientID:   "CUST-0001",
		ClientName: "ACME",
		Type:       "video",
		URL:        "https://cdn.example.com/reel-v2.mp4",
	})
	require.NoError(t, err)
	id := d.ID

	t.Run("Success - Failed remote update keeps the transition locally", func(t *testing.T) {
		fake.setFailPuts(true)

		updated, err := svc.UpdateStatus(ctx, id, models.UpdateDeliverableStatusRequest{
			Status:   models.DeliverableStatusChangesRequested,
			Feedback: &models.Feedback{Comment: "swap the intro", Author: "ACME"},
		})

		require.NoError(t, err)
		assert.True(t, updated.SyncPending)

		stored, err := repo.ListDeliverables(ctx, "")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, id, stored[0].ID)
		assert.Equal(t, models.DeliverableStatusChangesRequested, stored[0].Status)
		require.Len(t, stored[0].Feedback, 1)
	})

	t.Run("Success - Reread returns the pending transition, not the stale remote doc", func(t *testing.T) {
		got, err := svc.Get(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, models.DeliverableStatusChangesRequested, got.Status)
		require.Len(t, got.Feedback, 1)
		assert.Equal(t, "swap the intro", got.Feedback[0].Comment)

		list, err := svc.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].SyncPending)
	})

	t.Run("Success - Recovered update pushes the state and drops the local copy", func(t *testing.T) {
		fake.setFailPuts(false)

		updated, err := svc.UpdateStatus(ctx, id, models.UpdateDeliverableStatusRequest{
			Status:   models.DeliverableStatusApproved,
			Feedback: &models.Feedback{Comment: "looks great", Author: "ACME"},
		})

		require.NoError(t, err)
		assert.False(t, updated.SyncPending)
		require.Len(t, updated.Feedback, 2)
		assert.Equal(t, "Completed", fake.docs[id]["status"])

		stored, err := repo.ListDeliverables(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestDeliverableLocalFallback(t *testing.T) {
	repo := store.NewMemory()
	down := NewService(erp.NewClient("", "", "", nil), repo, notify.NewRelay(nil), nil)
	ctx := context.Background()

	t.Run("Success - Create survives an unreachable remote", func(t *testing.T) {
		d, err := down.Create(ctx, models.CreateDeliverableRequest{
			Title:      "Podcast intro",
			ClientName: "Globex",
			Type:       "audio",
			URL:        "https://cdn.example.com/intro.mp3",
		})

		require.NoError(t, err)
		assert.Regexp(t, `^LOCAL-\d+$`, d.ID)
		assert.True(t, d.SyncPending)
	})

	t.Run("Success - Degraded list returns local records with the error", func(t *testing.T) {
		list, err := down.List(ctx, "")

		assert.True(t, erp.IsUnavailable(err))
		require.Len(t, list, 1)
		assert.Equal(t, "Podcast intro", list[0].Title)
	})

	t.Run("Success - Local deliverable accepts feedback offline", func(t *testing.T) {
		list, _ := down.List(ctx, "")
		id := list[0].ID

		d, err := down.UpdateStatus(ctx, id, models.UpdateDeliverableStatusRequest{
			Status:   models.DeliverableStatusChangesRequested,
			Feedback: &models.Feedback{Comment: "needs a fade out", Author: "Globex"},
		})

		require.NoError(t, err)
		require.Len(t, d.Feedback, 1)

		stored, err := repo.ListDeliverables(ctx, "")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, models.DeliverableStatusChangesRequested, stored[0].Status)
	})

	t.Run("Success - Delete of a local record is immediate", func(t *testing.T) {
		list, _ := down.List(ctx, "")
		require.NoError(t, down.Delete(ctx, list[0].ID))

		stored, err := repo.ListDeliverables(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}
