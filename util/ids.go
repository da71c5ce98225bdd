package util

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/rs/xid"
)

// GenTaskKey generates a task key string.
// Keys are globally unique and sortable.
func GenTaskKey() string {
	id := xid.New()
	return id.String()
}

// tokenSymbols replaces the two base64 symbols by letters, so tokens are
// safe in job names and file names.
var tokenSymbols = strings.NewReplacer("-", "T", "_", "K")

// RandomToken returns a random alphanumeric string of length n.
func RandomToken(n int) string {
	if n <= 0 {
		return ""
	}
	buf := make([]byte, (n*6+7)/8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return tokenSymbols.Replace(base64.RawURLEncoding.EncodeToString(buf))[:n]
}
