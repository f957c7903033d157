package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendor-auth/auth/auth"
	"github.com/vendor-auth/auth/pkg/option"
)

// flakyStore wraps a store and fails every call while fail is set.
type flakyStore struct {
	store auth.IdentityStore
	fail  bool
}

func (s *flakyStore) FindByUsername(ctx context.Context, username string) (option.Option[auth.Identity], error) {
	if s.fail {
		return option.None[auth.Identity](), auth.ErrStorageUnavailable
	}

	return s.store.FindByUsername(ctx, username)
}

func (s *flakyStore) Update(ctx context.Context, identity auth.Identity) error {
	if s.fail {
		return auth.ErrCommitFailed
	}

	return s.store.Update(ctx, identity)
}

func testIdentity(username string) auth.Identity {
	return auth.Identity{
		ID:        1,
		Username:  username,
		PublicKey: "age1testpublickey",
		Secret:    "hunter2",
		Profile: auth.Profile{
			FirstName: "Alice",
		},
	}
}

func TestCachedDirectory_Resolve(t *testing.T) {
	t.Run("CacheHitSurvivesStoreOutage", func(t *testing.T) {
		alice := testIdentity("alice")
		store := &flakyStore{store: NewInMemoryIdentityStore(map[string]auth.Identity{"alice": alice})}

		d := NewCachedDirectory(store, NewLRUCache(16, time.Minute), zap.NewNop())

		first, err := d.Resolve(context.Background(), "alice")
		require.NoError(t, err)
		require.True(t, first.HasValue())

		store.fail = true

		second, err := d.Resolve(context.Background(), "alice")
		require.NoError(t, err)
		require.True(t, second.HasValue())

		assert.Equal(t, alice, second.Value())
	})

	t.Run("NotFoundIsNotCached", func(t *testing.T) {
		memory := NewInMemoryIdentityStore(nil)

		d := NewCachedDirectory(memory, NewLRUCache(16, time.Minute), zap.NewNop())

		missing, err := d.Resolve(context.Background(), "bob")
		require.NoError(t, err)
		assert.False(t, missing.HasValue())

		// a user provisioned after a failed lookup is visible immediately
		memory.Add(testIdentity("bob"))

		found, err := d.Resolve(context.Background(), "bob")
		require.NoError(t, err)
		assert.True(t, found.HasValue())
	})

	t.Run("StorageUnavailable", func(t *testing.T) {
		store := &flakyStore{store: NewInMemoryIdentityStore(nil), fail: true}

		d := NewCachedDirectory(store, NewLRUCache(16, time.Minute), zap.NewNop())

		_, err := d.Resolve(context.Background(), "alice")
		require.Error(t, err)

		assert.ErrorIs(t, err, auth.ErrStorageUnavailable)
	})
}

func TestCachedDirectory_Save(t *testing.T) {
	t.Run("UpdatesCache", func(t *testing.T) {
		alice := testIdentity("alice")
		store := &flakyStore{store: NewInMemoryIdentityStore(map[string]auth.Identity{"alice": alice})}

		d := NewCachedDirectory(store, NewLRUCache(16, time.Minute), zap.NewNop())

		_, err := d.Resolve(context.Background(), "alice")
		require.NoError(t, err)

		updated := alice
		updated.Secret = "new secret"

		require.NoError(t, d.Save(context.Background(), updated))

		// served from cache even with the store down
		store.fail = true

		resolved, err := d.Resolve(context.Background(), "alice")
		require.NoError(t, err)
		require.True(t, resolved.HasValue())

		assert.Equal(t, "new secret", resolved.Value().Secret)
	})

	t.Run("EvictsOnCommitFailure", func(t *testing.T) {
		alice := testIdentity("alice")
		store := &flakyStore{store: NewInMemoryIdentityStore(map[string]auth.Identity{"alice": alice})}

		d := NewCachedDirectory(store, NewLRUCache(16, time.Minute), zap.NewNop())

		_, err := d.Resolve(context.Background(), "alice")
		require.NoError(t, err)

		updated := alice
		updated.Secret = "never committed"

		store.fail = true

		err = d.Save(context.Background(), updated)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrCommitFailed)

		store.fail = false

		// the failed write also dropped the cache entry, so the next read
		// reflects the durable store
		resolved, err := d.Resolve(context.Background(), "alice")
		require.NoError(t, err)
		require.True(t, resolved.HasValue())

		assert.Equal(t, "hunter2", resolved.Value().Secret)
	})

	t.Run("ConcurrentWritersSameUsername", func(t *testing.T) {
		const writers = 16

		store := NewInMemoryIdentityStore(map[string]auth.Identity{"alice": testIdentity("alice")})

		d := NewCachedDirectory(store, NewLRUCache(16, time.Minute), zap.NewNop())

		var wg sync.WaitGroup

		for n := 0; n < writers; n++ {
			wg.Add(1)

			go func(n int) {
				defer wg.Done()

				identity := testIdentity("alice")
				identity.Secret = fmt.Sprintf("secret-%d", n)
				identity.Profile = auth.Profile{
					FirstName: fmt.Sprintf("first-%d", n),
					LastName:  fmt.Sprintf("last-%d", n),
					Note:      fmt.Sprintf("note-%d", n),
				}

				assert.NoError(t, d.Save(context.Background(), identity))
			}(n)
		}

		wg.Wait()

		resolved, err := store.FindByUsername(context.Background(), "alice")
		require.NoError(t, err)
		require.True(t, resolved.HasValue())

		// exactly one writer's payload persisted, with no interleaved fields
		identity := resolved.Value()
		suffix := strings.TrimPrefix(identity.Secret, "secret-")

		assert.Equal(t, "first-"+suffix, identity.Profile.FirstName)
		assert.Equal(t, "last-"+suffix, identity.Profile.LastName)
		assert.Equal(t, "note-"+suffix, identity.Profile.Note)
	})
}

func TestInMemoryIdentityStore_UpdateUnknown(t *testing.T) {
	store := NewInMemoryIdentityStore(nil)

	err := store.Update(context.Background(), testIdentity("ghost"))
	require.Error(t, err)

	assert.ErrorIs(t, err, auth.ErrCommitFailed)
}
