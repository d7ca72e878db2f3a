package wishlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bookstore-commerce/internal/domain/catalog"
	"github.com/your-org/bookstore-commerce/internal/pkg/async"
)

// fakeLocal implements LocalRepository for testing
type fakeLocal struct {
	entries map[string][]Entry
	saveErr error
}

func newFakeLocal() *fakeLocal {
	return &fakeLocal{entries: map[string][]Entry{}}
}

func (f *fakeLocal) Load(_ context.Context, deviceID string) ([]Entry, error) {
	return append([]Entry{}, f.entries[deviceID]...), nil
}

func (f *fakeLocal) Save(_ context.Context, deviceID string, entries []Entry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries[deviceID] = entries
	return nil
}

// fakeRemote implements RemoteRepository for testing
type fakeRemote struct {
	lists      map[uint][]uint
	replaceErr error
	replaces   int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{lists: map[uint][]uint{}}
}

func (f *fakeRemote) IDs(_ context.Context, userID uint) ([]uint, error) {
	return append([]uint{}, f.lists[userID]...), nil
}

func (f *fakeRemote) Replace(_ context.Context, userID uint, ids []uint) error {
	f.replaces++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.lists[userID] = ids
	return nil
}

// fakeCatalog implements catalog.Resolver for testing
type fakeCatalog struct {
	books map[uint]catalog.Book
}

func (f *fakeCatalog) Book(_ context.Context, id uint) (*catalog.Book, error) {
	if b, ok := f.books[id]; ok {
		return &b, nil
	}
	return nil, catalog.ErrBookNotFound
}

func (f *fakeCatalog) Books(_ context.Context, ids []uint) ([]catalog.Book, error) {
	out := []catalog.Book{}
	for _, id := range ids {
		if b, ok := f.books[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func newEngine(local LocalRepository, remote RemoteRepository, resolver catalog.Resolver) (*SyncEngine, *async.Writer) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	writer := async.NewWriter(16, logger)
	return NewSyncEngine(local, remote, resolver, writer, logger), writer
}

func snapshot(id uint) Entry {
	return Entry{ProductID: id, Title: "Book", Price: 100000, AddedAt: time.Now().UTC()}
}

func TestOnSignIn_EmptyRemoteAdoptsLocal(t *testing.T) {
	local := newFakeLocal()
	local.entries["dev-1"] = []Entry{snapshot(1), snapshot(2)}
	remote := newFakeRemote()
	resolver := &fakeCatalog{books: map[uint]catalog.Book{}}

	engine, writer := newEngine(local, remote, resolver)
	defer writer.Close()

	err := engine.OnSignIn(context.Background(), 42, "dev-1")
	require.NoError(t, err)

	assert.Equal(t, []uint{1, 2}, remote.lists[42])

	entries, err := engine.Entries(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids(entries))
}

func TestOnSignIn_NonEmptyRemoteWins(t *testing.T) {
	local := newFakeLocal()
	local.entries["dev-1"] = []Entry{snapshot(1)}
	remote := newFakeRemote()
	remote.lists[42] = []uint{3}
	resolver := &fakeCatalog{books: map[uint]catalog.Book{
		3: {ID: 3, Title: "Remote Pick", Price: 90000, IsActive: true},
	}}

	engine, writer := newEngine(local, remote, resolver)
	defer writer.Close()

	err := engine.OnSignIn(context.Background(), 42, "dev-1")
	require.NoError(t, err)

	// Remote untouched, local replaced: product 1 is gone.
	assert.Equal(t, []uint{3}, remote.lists[42])

	entries, err := engine.Entries(context.Background(), "dev-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(3), entries[0].ProductID)
	assert.Equal(t, "Remote Pick", entries[0].Title)
}

func TestOnSignIn_BothEmptyIsNoop(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	resolver := &fakeCatalog{books: map[uint]catalog.Book{}}

	engine, writer := newEngine(local, remote, resolver)
	defer writer.Close()

	err := engine.OnSignIn(context.Background(), 42, "dev-1")
	require.NoError(t, err)

	assert.Zero(t, remote.replaces)
	assert.Empty(t, remote.lists[42])
}

func TestToggle_AddsAndRemoves(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	resolver := &fakeCatalog{books: map[uint]catalog.Book{}}

	engine, writer := newEngine(local, remote, resolver)

	book := &catalog.Book{ID: 5, Title: "Toggled", Price: 50000}

	entries, err := engine.Toggle(context.Background(), nil, "dev-1", book)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = engine.Toggle(context.Background(), nil, "dev-1", book)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Signed out: no remote writes at all.
	writer.Close()
	assert.Zero(t, remote.replaces)
}

func TestToggle_SignedInReplicatesFullIDList(t *testing.T) {
	local := newFakeLocal()
	local.entries["dev-1"] = []Entry{snapshot(1)}
	remote := newFakeRemote()
	resolver := &fakeCatalog{books: map[uint]catalog.Book{}}

	engine, writer := newEngine(local, remote, resolver)

	uid := uint(42)
	_, err := engine.Toggle(context.Background(), &uid, "dev-1", &catalog.Book{ID: 2, Title: "Second"})
	require.NoError(t, err)

	// Drain the background writer before asserting.
	writer.Close()

	assert.Equal(t, []uint{1, 2}, remote.lists[42])
}

func TestToggle_RemoteFailureIsSwallowed(t *testing.T) {
	local := newFakeLocal()
	remote := newFakeRemote()
	remote.replaceErr = errors.New("network down")
	resolver := &fakeCatalog{books: map[uint]catalog.Book{}}

	engine, writer := newEngine(local, remote, resolver)

	uid := uint(42)
	entries, err := engine.Toggle(context.Background(), &uid, "dev-1", &catalog.Book{ID: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	writer.Close()

	// The optimistic local update stands even though replication failed.
	got, err := engine.Entries(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids(got))
	assert.Equal(t, 1, remote.replaces)
}

func TestOnSignOut_ViewFallsBackToLocalCache(t *testing.T) {
	local := newFakeLocal()
	local.entries["dev-1"] = []Entry{snapshot(9)}
	remote := newFakeRemote()
	resolver := &fakeCatalog{books: map[uint]catalog.Book{}}

	engine, writer := newEngine(local, remote, resolver)
	defer writer.Close()

	entries, err := engine.OnSignOut(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, []uint{9}, ids(entries))
}
