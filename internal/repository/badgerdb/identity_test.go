package badgerdb

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *badger.DB {
	db, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestIdentityStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should return nil for an empty slot", func(t *testing.T) {
		req := require.New(t)
		store := NewIdentityStore(setupTestDB(t))

		got, err := store.Load(ctx, "s1:user")

		req.NoError(err)
		req.Nil(got)
	})

	t.Run("should save, load and clear a record", func(t *testing.T) {
		req := require.New(t)
		store := NewIdentityStore(setupTestDB(t))
		id := &models.Identity{ID: "user-1", Name: "a", Email: "a@b.com", Role: models.RoleTeamMember}

		req.NoError(store.Save(ctx, "s1:user", id))
		got, err := store.Load(ctx, "s1:user")
		req.NoError(err)
		req.Equal(id, got)

		req.NoError(store.Clear(ctx, "s1:user"))
		got, err = store.Load(ctx, "s1:user")
		req.NoError(err)
		req.Nil(got)
	})

	t.Run("should keep slots under different keys apart", func(t *testing.T) {
		req := require.New(t)
		store := NewIdentityStore(setupTestDB(t))
		a := &models.Identity{ID: "a", Role: models.RoleManager}
		b := &models.Identity{ID: "b", Role: models.RoleTeamMember}

		req.NoError(store.Save(ctx, "s1:user", a))
		req.NoError(store.Save(ctx, "s2:user", b))
		req.NoError(store.Clear(ctx, "s1:user"))

		got, err := store.Load(ctx, "s2:user")
		req.NoError(err)
		req.Equal(b, got)
	})

	t.Run("should store the record as plain identity JSON", func(t *testing.T) {
		req := require.New(t)
		db := setupTestDB(t)
		store := NewIdentityStore(db)
		id := &models.Identity{ID: "user-1", Name: "a", Email: "a@b.com", Role: models.RoleManager}
		req.NoError(store.Save(ctx, "s1:user", id))

		var raw map[string]string
		err := db.View(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte("s1:user"))
			if err != nil {
				return err
			}
			return item.Value(func(v []byte) error { return json.Unmarshal(v, &raw) })
		})

		req.NoError(err)
		req.Equal(map[string]string{"id": "user-1", "name": "a", "email": "a@b.com", "role": "manager"}, raw)
	})
}
