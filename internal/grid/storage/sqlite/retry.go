package sqlite

import (
	"strings"
	"time"
)

// retryOnBusy retries a write a few times when sqlite reports the
// database as locked. WAL mode plus the connection busy_timeout handles
// most contention; this covers the residual window around checkpoints.
func retryOnBusy(fn func() error) error {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		msg := err.Error()
		if !strings.Contains(msg, "database is locked") && !strings.Contains(msg, "SQLITE_BUSY") {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	return err
}
