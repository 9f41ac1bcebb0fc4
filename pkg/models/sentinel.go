package models

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// localIDPrefix marks an entity not yet linked to a real remote record
const localIDPrefix = "LOCAL-"

var localIDSeq atomic.Uint64

// NewLocalID generates a sentinel remote-id for a record whose remote
// create has not succeeded. Visually distinguishable and recognizable by
// later reconciliation logic as needing retry. The counter suffix keeps
// ids unique when several records fall back within the same millisecond.
func NewLocalID() string {
	return fmt.Sprintf("%s%d%04d", localIDPrefix, time.Now().UnixMilli(), localIDSeq.Add(1)%10000)
}

// IsLocalID reports whether id is a sentinel remote-id
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, localIDPrefix)
}
