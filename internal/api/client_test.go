package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/models"
)

var testScope = models.Scope{
	TenantCode:      "acme",
	ProductCode:     "ops",
	ObjectCode:      "order",
	ViewContentCode: "order_list",
}

func TestRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/t/acme/p/ops/o/order/view/order_list/record", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {
			"view_content": {"code": "order_list", "name": "Orders"},
			"layout": {"type": "container", "children": []},
			"fields": [{"field_code": "name", "field_name": "Name", "data_type": "Text"}]
		}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithToken(func() string { return "tok-123" }))
	doc, err := client.Record(context.Background(), testScope)
	require.NoError(t, err)
	assert.Equal(t, "order_list", doc.ViewContent.Code)
	assert.Len(t, doc.Fields, 1)
	assert.NotEmpty(t, doc.Layout)
}

func TestRecordMissingLayout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"view_content": {"code": "order_list"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Record(context.Background(), testScope)
	require.Error(t, err)
	assert.Equal(t, MissingLayout, KindOf(err))
}

func TestDataSendsFiltersOnWire(t *testing.T) {
	var captured map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"data": {"items": [{"name": {"value": "a", "display_value": "A"}}],
			"page": 1, "page_size": 10, "total_data": 1, "total_page": 1}}`))
	}))
	defer server.Close()

	set := filter.NewSet()
	require.NoError(t, set.AddField(nil, "status", nil))
	require.NoError(t, set.UpdateLeaf(filter.Path{"status"}, filter.LeafValue, "active"))

	client := NewClient(server.URL)
	result, err := client.Data(context.Background(), testScope, DataRequest{
		Filters:  set.Wire(),
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalData)
	assert.Equal(t, "A", result.Items[0]["name"].Display())

	assert.JSONEq(t,
		`[{"operator":"AND","filter_item":{"status":{"value":"active","operator":"equal"}}}]`,
		string(captured["filters"]))
}

func TestAuthClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   FailureKind
	}{
		{"unauthorized", http.StatusUnauthorized, AuthFailure},
		{"forbidden", http.StatusForbidden, AuthFailure},
		{"server error keeps call kind", http.StatusInternalServerError, NetworkFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message": "nope"}`))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.Data(context.Background(), testScope, DataRequest{})
			require.Error(t, err)
			assert.Equal(t, tt.want, KindOf(err))
			if tt.want == AuthFailure {
				assert.True(t, IsAuth(err))
			}
		})
	}
}

func TestUpdatePatchesBySerial(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/t/acme/p/ops/o/order/data/S-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"data": {"serial": "S-1"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Update(context.Background(), testScope, "S-1", map[string]any{"name": "changed"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "changed"}, captured)
}

func TestDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/t/acme/p/ops/o/order/data/S-9", r.URL.Path)
		w.Write([]byte(`{"data": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.Delete(context.Background(), testScope, "S-9"))
}

func TestDeleteFailureKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message": "record is referenced"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Delete(context.Background(), testScope, "S-9")
	require.Error(t, err)
	assert.Equal(t, DeleteFailure, KindOf(err))
	assert.Contains(t, err.Error(), "record is referenced")
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/t/acme/p/ops/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body["email"])
		w.Write([]byte(`{"data": {"token": "tok-777", "user": {
			"email": {"value": "a@b.c", "display_value": "a@b.c"}}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	session, err := client.Login(context.Background(), "acme", "ops", "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-777", session.Token)
	assert.True(t, session.Valid())
}

func TestNavigationLinksParents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"code": "sales", "title": "Sales", "children": [
				{"code": "orders", "title": "Orders", "children": []}
			]}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	items, err := client.Navigation(context.Background(), testScope)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Len(t, items[0].Children, 1)
	assert.Equal(t, items[0], items[0].Children[0].Parent)
}

func TestNetworkFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	_, err := client.Data(context.Background(), testScope, DataRequest{})
	require.Error(t, err)
	assert.Equal(t, NetworkFailure, KindOf(err))
}

func TestExport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/t/acme/p/ops/o/order/view/order_list/export", r.URL.Path)
		w.Write([]byte(`{"data": {"data": "aGVsbG8=", "content_type": "text/csv", "file_name": "orders.csv"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Export(context.Background(), testScope, DataRequest{})
	require.NoError(t, err)
	assert.Equal(t, "orders.csv", result.FileName)
	assert.Equal(t, "aGVsbG8=", result.Data)
}
