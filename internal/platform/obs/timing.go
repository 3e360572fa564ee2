package obs

import (
	"context"
	"log"
	"time"
)

// Time logs an operation's duration on return, including the error when
// the traced call failed. Use as:
//
//	defer obs.Time(ctx, "route_store.sqlite.Save")(&err)
func Time(_ context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("op=%s dur=%dms err=%v", name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("op=%s dur=%dms", name, dur.Milliseconds())
	}
}
