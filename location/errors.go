package location

import (
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
	"github.com/katalvlaran/fpmgraph/id"
)

// errNotManaged wraps fpmaserr.ErrProtocol for an id this process does
// not originate. AddManagedNode and RemoveManagedNode do not return it:
// they ignore such ids.
func errNotManaged(nid id.DistributedId, self int32) error {
	return fmt.Errorf("location: id %s is not managed by rank %d: %w", nid, self, fpmaserr.ErrProtocol)
}

// errUnknownOrigin wraps fpmaserr.ErrProtocol: an origin rank responded
// about an id it never received a managed registration for.
func errUnknownOrigin(nid id.DistributedId) error {
	return fmt.Errorf("location: origin has no managed entry for %s: %w", nid, fpmaserr.ErrProtocol)
}
