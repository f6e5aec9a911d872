package svckit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteStartupErrorFile records a startup failure in a well-known file
// under dir. Startup failures happen before any logger exists, so this
// is the one place an operator can always look. Each call overwrites
// the file, keeping only the most recent failure.
func WriteStartupErrorFile(dir string, err error) {
	_ = os.MkdirAll(dir, 0o755)

	f, ferr := os.Create(filepath.Join(dir, "startup-error.log"))
	if ferr != nil {
		return
	}
	defer f.Close()

	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] STARTUP ERROR\n%v\n", ts, err)
}
