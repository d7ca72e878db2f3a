// internal/domain/wishlist/sync.go
package wishlist

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
	"github.com/your-org/bookstore-commerce/internal/pkg/async"
)

// SyncEngine reconciles the device wishlist cache with the authoritative
// remote copy across sign-in/sign-out transitions.
//
// Reconciliation rule at sign-in: a non-empty remote wins outright
// (last-session-wins, no merge); an empty remote with local entries means
// a first sign-in, and the local set is pushed up once. While signed in,
// toggles update the cache immediately and replicate the full id list to
// the remote store in the background; a failed replication is logged and
// never retried.
type SyncEngine struct {
	local   LocalRepository
	remote  RemoteRepository
	catalog catalog.Resolver
	writer  *async.Writer
	logger  *logrus.Logger
}

// NewSyncEngine creates a new wishlist sync engine
func NewSyncEngine(local LocalRepository, remote RemoteRepository, resolver catalog.Resolver, writer *async.Writer, logger *logrus.Logger) *SyncEngine {
	return &SyncEngine{
		local:   local,
		remote:  remote,
		catalog: resolver,
		writer:  writer,
		logger:  logger,
	}
}

// Entries returns the current wishlist view: always the device cache,
// which mirrors the remote copy while a user is signed in.
func (e *SyncEngine) Entries(ctx context.Context, deviceID string) ([]Entry, error) {
	return e.local.Load(ctx, deviceID)
}

// OnSignIn reconciles local and remote state for a fresh session
func (e *SyncEngine) OnSignIn(ctx context.Context, userID uint, deviceID string) error {
	remoteIDs, err := e.remote.IDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch remote wishlist: %w", err)
	}

	if len(remoteIDs) > 0 {
		// Remote is authoritative: resolve snapshots and overwrite local.
		books, err := e.catalog.Books(ctx, remoteIDs)
		if err != nil {
			return fmt.Errorf("failed to resolve remote wishlist: %w", err)
		}

		entries := make([]Entry, len(books))
		now := time.Now().UTC()
		for i, b := range books {
			entries[i] = Entry{
				ProductID: b.ID,
				Title:     b.Title,
				Cover:     b.Cover,
				Price:     b.Price,
				AddedAt:   now,
			}
		}

		if err := e.local.Save(ctx, deviceID, entries); err != nil {
			return fmt.Errorf("failed to mirror remote wishlist locally: %w", err)
		}
		return nil
	}

	// Empty remote: a pre-existing local wishlist becomes the remote copy.
	localEntries, err := e.local.Load(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("failed to load local wishlist: %w", err)
	}

	if len(localEntries) > 0 {
		if err := e.remote.Replace(ctx, userID, ids(localEntries)); err != nil {
			// Not fatal for the session; the local copy still stands.
			e.logger.WithFields(logrus.Fields{
				"user_id":   userID,
				"device_id": deviceID,
			}).WithError(err).Warn("initial wishlist push failed")
		}
	}

	return nil
}

// OnSignOut returns the view to locally-owned data. The cache already
// holds the freshest mirror, so there is nothing to write, only to reload.
func (e *SyncEngine) OnSignOut(ctx context.Context, deviceID string) ([]Entry, error) {
	return e.local.Load(ctx, deviceID)
}

// Toggle flips a product in or out of the wishlist. The cache is updated
// immediately so the UI never blocks; when a user is signed in the full
// resulting id list is replicated to the remote store off the request path.
func (e *SyncEngine) Toggle(ctx context.Context, userID *uint, deviceID string, book *catalog.Book) ([]Entry, error) {
	entries, err := e.local.Load(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	removed := false
	for i := range entries {
		if entries[i].ProductID == book.ID {
			entries = append(entries[:i], entries[i+1:]...)
			removed = true
			break
		}
	}

	if !removed {
		entries = append(entries, Entry{
			ProductID: book.ID,
			Title:     book.Title,
			Cover:     book.Cover,
			Price:     book.Price,
			AddedAt:   time.Now().UTC(),
		})
	}

	if err := e.local.Save(ctx, deviceID, entries); err != nil {
		e.logger.WithField("device_id", deviceID).WithError(err).Warn("wishlist cache write failed")
	}

	if userID != nil {
		uid := *userID
		wanted := ids(entries)
		e.writer.Enqueue(async.Task{
			Label: fmt.Sprintf("wishlist-replace:user:%d", uid),
			Op: func(ctx context.Context) error {
				return e.remote.Replace(ctx, uid, wanted)
			},
		})
	}

	return entries, nil
}
