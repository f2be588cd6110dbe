package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowItem() models.InventoryItem {
	return models.InventoryItem{
		ID: "2", SKU: "PHN-002", Name: "iPhone 15 Pro",
		Quantity: 8, ReorderLevel: 10,
	}
}

func TestBuildMessageLow(t *testing.T) {
	msg := BuildMessage(lowItem(), "Staf Gudang", models.RoleWarehouse)

	assert.Contains(t, msg.Text, "RENDAH")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "#f59e0b", msg.Attachments[0].Color)
	assert.Equal(t, "Sistem Notifikasi Stok Makmur", msg.Attachments[0].Footer)

	fields := msg.Attachments[0].Fields
	require.Len(t, fields, 5)
	assert.Equal(t, "iPhone 15 Pro", fields[0].Value)
	assert.Equal(t, "PHN-002", fields[1].Value)
	assert.Equal(t, "8 unit", fields[2].Value)
	assert.Equal(t, "10 unit", fields[3].Value)
	assert.Equal(t, "Staf Gudang (WAREHOUSE)", fields[4].Value)
}

func TestBuildMessageCritical(t *testing.T) {
	item := lowItem()
	item.Quantity = 5 // half the reorder level, inclusive

	msg := BuildMessage(item, "Manajer", models.RoleManager)

	assert.Contains(t, msg.Text, "KRITIS")
	assert.Equal(t, "#ef4444", msg.Attachments[0].Color)
}

func TestNotifyPostsWebhook(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	err := n.Notify(context.Background(), lowItem(), "Staf Gudang", models.RoleWarehouse)

	require.NoError(t, err)
	assert.Contains(t, got.Text, "Peringatan Stok")
}

func TestNotifyWithoutWebhookDropsSilently(t *testing.T) {
	n := NewNotifier("")
	err := n.Notify(context.Background(), lowItem(), "Manajer", models.RoleManager)
	assert.NoError(t, err)
}

func TestNotifyReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	err := n.Notify(context.Background(), lowItem(), "Manajer", models.RoleManager)
	assert.Error(t, err)
}
