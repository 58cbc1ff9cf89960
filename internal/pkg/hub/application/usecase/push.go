package usecase

import (
	"go-huddle/internal/infrastructure/realtime"
)

// pushAll delivers payload to every connection in the snapshot and returns
// how many sends were accepted. Individual failures are swallowed: a
// connection that closed microseconds earlier, or a saturated one, must never
// affect delivery to the rest. The authoritative outcome always lives in the
// durable store.
func pushAll(conns []realtime.Conn, payload []byte) int {
	delivered := 0
	for _, c := range conns {
		if err := c.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}
