package webdav

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebdav "golang.org/x/net/webdav"
)

func TestWebDAV_SendAndDelete(t *testing.T) {
	fs := xwebdav.NewMemFS()
	srv := httptest.NewServer(&xwebdav.Handler{FileSystem: fs, LockSystem: xwebdav.NewMemLS()})
	defer srv.Close()

	client, err := NewClient(&Config{Endpoint: srv.URL, CustomPath: "exports"})
	require.NoError(t, err)

	ctx := context.Background()
	key, err := client.SendContent(ctx, "7/snap.json", []byte(`{"ok":true}`), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "/exports/7/snap.json", key)

	raw, err := client.Client.Read(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	require.NoError(t, client.Delete(ctx, "7/snap.json"))
	_, err = client.Client.Stat(key)
	assert.Error(t, err)
	assert.NoError(t, client.Delete(ctx, "7/snap.json"))
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)
}
