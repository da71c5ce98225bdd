package util

import (
	"bytes"
	"io"
	"os"
)

// EmptyReader yields no commands.
func EmptyReader() io.Reader {
	return bytes.NewReader(nil)
}

// StdinPipe returns stdin when commands are piped or redirected into the
// process. An interactive terminal yields no commands instead of blocking.
func StdinPipe() io.Reader {
	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return EmptyReader()
	}
	return os.Stdin
}
