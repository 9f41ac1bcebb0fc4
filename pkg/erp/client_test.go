package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, "key", "secret", nil), srv
}

func TestClientAuth(t *testing.T) {
	t.Run("Success - Token auth header on every request", func(t *testing.T) {
		var gotAuth string
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"data":[]}`))
		})
		defer srv.Close()

		_, err := client.List(context.Background(), "Task", ListOptions{})

		require.NoError(t, err)
		assert.Equal(t, "token key:secret", gotAuth)
	})

	t.Run("Failure - Unconfigured client returns ErrNotConfigured", func(t *testing.T) {
		client := NewClient("", "", "", nil)

		_, err := client.List(context.Background(), "Task", ListOptions{})
		assert.ErrorIs(t, err, ErrNotConfigured)

		_, err = client.Create(context.Background(), "Task", map[string]any{})
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestClientList(t *testing.T) {
	t.Run("Success - Filters serialize as JSON triples", func(t *testing.T) {
		var gotFilters, gotFields, gotLimit string
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotFilters = r.URL.Query().Get("filters")
			gotFields = r.URL.Query().Get("fields")
			gotLimit = r.URL.Query().Get("limit_page_length")
			w.Write([]byte(`{"data":[{"name":"TASK-001"}]}`))
		})
		defer srv.Close()

		docs, err := client.List(context.Background(), "Task", ListOptions{
			Filters: []Filter{Eq("customer", "ACME"), {Field: "status", Op: "!=", Value: "Cancelled"}},
			Fields:  []string{"name", "subject"},
		})

		require.NoError(t, err)
		assert.Len(t, docs, 1)
		assert.JSONEq(t, `[["customer","=","ACME"],["status","!=","Cancelled"]]`, gotFilters)
		assert.JSONEq(t, `["name","subject"]`, gotFields)
		assert.Equal(t, "0", gotLimit)
	})

	t.Run("Success - Explicit limit is passed through", func(t *testing.T) {
		var gotLimit string
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotLimit = r.URL.Query().Get("limit_page_length")
			w.Write([]byte(`{"data":[]}`))
		})
		defer srv.Close()

		_, err := client.List(context.Background(), "Task", ListOptions{Limit: 25})

		require.NoError(t, err)
		assert.Equal(t, "25", gotLimit)
	})

	t.Run("Success - Resource path names the doctype", func(t *testing.T) {
		var gotPath string
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.Write([]byte(`{"data":[]}`))
		})
		defer srv.Close()

		_, err := client.List(context.Background(), "Sales Invoice", ListOptions{})

		require.NoError(t, err)
		assert.Equal(t, "/api/resource/Sales%20Invoice", gotPath)
	})

	t.Run("Failure - Undecodable body yields DecodeError", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>not json</html>`))
		})
		defer srv.Close()

		_, err := client.List(context.Background(), "Task", ListOptions{})

		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
		assert.True(t, IsUnavailable(err))
	})
}

func TestClientGet(t *testing.T) {
	t.Run("Success - Returns raw document", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/resource/Task/TASK-001", r.URL.Path)
			w.Write([]byte(`{"data":{"name":"TASK-001","subject":"Launch"}}`))
		})
		defer srv.Close()

		raw, err := client.Get(context.Background(), "Task", "TASK-001")

		require.NoError(t, err)
		var doc map[string]string
		require.NoError(t, json.Unmarshal(raw, &doc))
		assert.Equal(t, "Launch", doc["subject"])
	})

	t.Run("Failure - 404 maps to ErrNotFound", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer srv.Close()

		_, err := client.Get(context.Background(), "Task", "MISSING")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, IsUnavailable(err))
	})
}

func TestClientCreate(t *testing.T) {
	t.Run("Success - Returns remote-assigned name", func(t *testing.T) {
		var gotBody map[string]any
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte(`{"data":{"name":"CUST-0042"}}`))
		})
		defer srv.Close()

		id, err := client.Create(context.Background(), "Customer", map[string]any{"customer_name": "Acme"})

		require.NoError(t, err)
		assert.Equal(t, "CUST-0042", id)
		assert.Equal(t, "Acme", gotBody["customer_name"])
	})

	t.Run("Failure - Missing name yields DecodeError", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":{}}`))
		})
		defer srv.Close()

		_, err := client.Create(context.Background(), "Customer", map[string]any{})

		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})

	t.Run("Failure - Non-2xx yields RemoteError with truncated body", func(t *testing.T) {
		long := make([]byte, 2048)
		for i := range long {
			long[i] = 'x'
		}
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write(long)
		})
		defer srv.Close()

		_, err := client.Create(context.Background(), "Customer", map[string]any{})

		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
		assert.Len(t, remoteErr.Body, 512)
		assert.True(t, IsUnavailable(err))
	})
}

func TestClientTransportFailure(t *testing.T) {
	t.Run("Failure - Connection refused yields TransportError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // nothing listening anymore
		client := NewClient(srv.URL, "key", "secret", nil)

		err := client.Update(context.Background(), "Task", "TASK-001", map[string]any{})

		var transportErr *TransportError
		assert.ErrorAs(t, err, &transportErr)
		assert.True(t, IsUnavailable(err))
	})
}

func TestClientDelete(t *testing.T) {
	t.Run("Success - Issues DELETE on the document path", func(t *testing.T) {
		var gotMethod, gotPath string
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusAccepted)
		})
		defer srv.Close()

		err := client.Delete(context.Background(), "Task", "TASK-007")

		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/api/resource/Task/TASK-007", gotPath)
	})
}
