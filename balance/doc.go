// Package balance defines the load-balancing contract Distribute's
// caller supplies a partition through: which rank each node should end
// up owned by. A real partitioner (Zoltan-equivalent graph partitioning,
// weighted by node/edge cost) is out of scope — this package only
// defines the seam and a deterministic reference implementation good
// enough to drive an integration test or demo without depending on one.
package balance
