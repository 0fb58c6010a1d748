package port

import "github.com/pondzashi/SuiPort/internal/domain/entity"

// LendingSnapshotStore looks up the externally-produced lending snapshot for
// an address. Lookups never return an error: absence and malformed content
// are both expressed in the LendingResult status so the rest of the run
// proceeds unaffected.
type LendingSnapshotStore interface {
	Load(address string) entity.LendingResult
}
