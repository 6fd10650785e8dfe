package nbastats

import (
	"fmt"
	"time"
)

// seasonFor returns the season label (e.g. "2024-25") containing t.
// Seasons roll over in October.
func seasonFor(t time.Time) string {
	start := t.Year()
	if t.Month() < time.October {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
