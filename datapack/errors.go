package datapack

import (
	"fmt"

	"github.com/katalvlaran/fpmgraph/fpmaserr"
)

// errTruncated wraps fpmaserr.ErrDeserialization with the number of bytes
// short, for a read that ran past the write cursor.
func errTruncated(need, have int) error {
	return fmt.Errorf("datapack: need %d bytes, have %d: %w", need, have, fpmaserr.ErrDeserialization)
}

// errNoSerializer wraps fpmaserr.ErrProtocol: a caller asked to Put/Get/
// Size a type with no registered Serializer.
func errNoSerializer(what string, v any) error {
	return fmt.Errorf("datapack: no %s registered for %T: %w", what, v, fpmaserr.ErrProtocol)
}

// errSizeMismatch wraps fpmaserr.ErrProtocol: a Serializer's To wrote a
// different number of bytes than its Size declared — a programming
// error in the serializer, not a data error.
func errSizeMismatch(declared, wrote int) error {
	return fmt.Errorf("datapack: serializer declared %d bytes but wrote %d: %w", declared, wrote, fpmaserr.ErrProtocol)
}
