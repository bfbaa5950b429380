package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotify(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	err := w.Notify(context.Background(), Summary{
		Uploader:    "張三",
		Guild:       "鐵血幫",
		Kills:       3,
		Money:       300000,
		MoneyText:   "30W",
		BankAccount: "12345",
	})
	require.NoError(t, err)

	content := got["content"]
	assert.Contains(t, content, "張三")
	assert.Contains(t, content, "30W")
	assert.Contains(t, content, "12345")
}

func TestWebhookNotifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).Notify(context.Background(), Summary{})
	assert.Error(t, err)
}

func TestWebhookNoURLIsNoop(t *testing.T) {
	assert.NoError(t, NewWebhook("").Notify(context.Background(), Summary{}))
}
