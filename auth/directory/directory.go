// Package directory implements the cached user directory: a TTL cache
// fronting the durable identity store.
package directory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vendor-auth/auth/auth"
	"github.com/vendor-auth/auth/pkg/option"
)

// cacheKeyPrefix namespaces directory entries in a cache shared with other
// operation kinds.
const cacheKeyPrefix = "vendor-user:"

// IdentityCache is the cache capability a CachedDirectory consumes.
// Implementations must be safe for concurrent use without external locking.
type IdentityCache interface {
	Get(key string) (auth.Identity, bool)
	Add(key string, identity auth.Identity)
	Remove(key string)
}

// CachedDirectory resolves identities through a cache fronting the durable
// store and serializes writes per username.
type CachedDirectory struct {
	store auth.IdentityStore
	cache IdentityCache

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	logger *zap.Logger
}

// NewCachedDirectory returns a new CachedDirectory.
func NewCachedDirectory(store auth.IdentityStore, cache IdentityCache, logger *zap.Logger) *CachedDirectory {
	return &CachedDirectory{
		store:  store,
		cache:  cache,
		locks:  make(map[string]*sync.Mutex),
		logger: logger,
	}
}

// Resolve implements auth.UserDirectory.
//
// A cache hit returns without touching durable storage. On a miss the store
// is queried by exact username match and a positive result is cached.
func (d *CachedDirectory) Resolve(ctx context.Context, username string) (option.Option[auth.Identity], error) {
	if identity, ok := d.cache.Get(cacheKeyPrefix + username); ok {
		return option.Some(identity), nil
	}

	identity, err := d.store.FindByUsername(ctx, username)
	if err != nil {
		return option.None[auth.Identity](), err
	}

	if !identity.HasValue() {
		// Never cache a miss: a user provisioned right after a failed lookup
		// must become visible on the next call.
		return identity, nil
	}

	d.cache.Add(cacheKeyPrefix+username, identity.Value())
	d.logger.Debug("cached identity", zap.String("username", username))

	return identity, nil
}

// Save implements auth.IdentityWriter.
//
// Writers for the same username are serialized so concurrent saves cannot
// interleave fields; writers for different usernames proceed concurrently.
// After a successful commit the cache entry is replaced, so readers never
// observe a profile older than a completed save.
func (d *CachedDirectory) Save(ctx context.Context, identity auth.Identity) error {
	lock := d.userLock(identity.Username)
	lock.Lock()
	defer lock.Unlock()

	if err := d.store.Update(ctx, identity); err != nil {
		// The cached entry may now disagree with the store; drop it rather
		// than keep serving it.
		d.cache.Remove(cacheKeyPrefix + identity.Username)

		return err
	}

	d.cache.Add(cacheKeyPrefix+identity.Username, identity)

	return nil
}

func (d *CachedDirectory) userLock(username string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	lock, ok := d.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[username] = lock
	}

	return lock
}
