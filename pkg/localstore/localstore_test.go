package localstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denovbaraka/storefront-backend/pkg/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(context.Background(), config.LocalStoreConfig{DSN: "file::memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, EntryCart, []byte(`[{"id":"1"}]`)))

	raw, err := store.Get(ctx, EntryCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(raw))
}

func TestStore_PutOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, EntryOrders, []byte(`[]`)))
	require.NoError(t, store.Put(ctx, EntryOrders, []byte(`[{"id":"42"}]`)))

	raw, err := store.Get(ctx, EntryOrders)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"42"}]`, string(raw))
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, EntryAdminSession, []byte(`true`)))
	require.NoError(t, store.Delete(ctx, EntryAdminSession))

	_, err := store.Get(ctx, EntryAdminSession)
	assert.True(t, errors.Is(err, ErrNotFound))

	// deleting again is a no-op
	require.NoError(t, store.Delete(ctx, EntryAdminSession))
}

func TestStore_JSONHelpers(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	type doc struct {
		Name string `json:"name"`
		Qty  int    `json:"qty"`
	}

	require.NoError(t, store.PutJSON(ctx, EntryCart, []doc{{Name: "somsa", Qty: 2}}))

	var decoded []doc
	require.NoError(t, store.GetJSON(ctx, EntryCart, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "somsa", decoded[0].Name)
	assert.Equal(t, 2, decoded[0].Qty)
}
