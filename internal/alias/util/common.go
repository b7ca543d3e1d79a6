package util

import (
	"fmt"
	"os"
)

// CloseFileFunc closes f and reports the error instead of dropping it.
// Meant for defer sites where the close error is not actionable.
func CloseFileFunc(f *os.File) {
	if err := f.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
