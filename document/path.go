package document

import (
	"strconv"
	"strings"
)

// JoinPath appends one reference token to a JSON-pointer style path used
// in error reporting. Tokens are escaped per RFC 6901 ("~" → "~0",
// "/" → "~1").
func JoinPath(base, token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return base + "/" + token
}

// JoinPathIndex appends an array index token to a JSON-pointer style path.
func JoinPathIndex(base string, index int) string {
	return base + "/" + strconv.Itoa(index)
}
