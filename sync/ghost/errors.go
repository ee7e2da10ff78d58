package ghost

import (
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
	"github.com/katalvlaran/fpmgraph/id"
)

func errNoSuchNode(nid id.DistributedId) error {
	return fmt.Errorf("ghost: %s: %w", nid, fpmaserr.ErrOutOfGraph)
}
