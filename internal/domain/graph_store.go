package domain

import "context"

// GraphStore is the capability interface over the shared,
// eventually-consistent graph used to mirror topic relationships and
// bookmarks across clients. Keys are namespaced paths. Last write wins;
// the store gives no persistence guarantees beyond eventual
// consistency.
type GraphStore interface {
	// Get reads the value at path. The bool reports presence.
	Get(ctx context.Context, path ...string) (string, bool, error)

	// Put writes the value at path and notifies observers.
	Put(ctx context.Context, value string, path ...string) error

	// ObserveOnce reads the value at path, serving repeated reads from
	// a local cache.
	ObserveOnce(ctx context.Context, path ...string) (string, bool, error)

	// Observe streams subsequent writes to path. The returned cancel
	// function releases the subscription and closes the channel.
	Observe(ctx context.Context, path ...string) (<-chan string, func(), error)

	// SetMember adds member to the set at path.
	SetMember(ctx context.Context, member string, path ...string) error

	// RemoveMember removes member from the set at path.
	RemoveMember(ctx context.Context, member string, path ...string) error

	// Members lists the set at path.
	Members(ctx context.Context, path ...string) ([]string, error)
}
