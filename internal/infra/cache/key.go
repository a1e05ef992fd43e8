package cache

import (
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Key derives a stable cache key from a namespace and any JSON-encodable
// value. Equal values always map to the same key.
func Key(namespace string, v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return namespace + ":" + strconv.FormatUint(xxhash.Sum64(raw), 16), nil
}
