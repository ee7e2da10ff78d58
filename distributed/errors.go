package distributed

import (
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
	"github.com/katalvlaran/fpmgraph/id"
)

// errUnknownManagedNode wraps fpmaserr.ErrOutOfGraph: an operation named
// a node id this process has no record of at all (neither LOCAL nor
// DISTANT).
func errUnknownManagedNode(nid id.DistributedId) error {
	return fmt.Errorf("distributed: node %s not known on this process: %w", nid, fpmaserr.ErrOutOfGraph)
}
