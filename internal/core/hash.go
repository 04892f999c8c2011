package core

import (
	"hash/fnv"
	"strconv"
)

// ETag is a strong entity tag for rendered markup, quoted as sent.
func ETag(markup string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(markup))
	return `"` + strconv.FormatUint(h.Sum64(), 36) + `"`
}
