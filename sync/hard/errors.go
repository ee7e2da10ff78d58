package hard

import (
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
	"github.com/katalvlaran/fpmgraph/id"
)

func errNoSuchNode(nid id.DistributedId) error {
	return fmt.Errorf("hard: %s: %w", nid, fpmaserr.ErrOutOfGraph)
}

func errUnexpectedKind(k wireKind) error {
	return fmt.Errorf("hard: unexpected message kind %d: %w", k, fpmaserr.ErrProtocol)
}
