package notification

import "time"

// Record kinds appended by the dispatch engine.
const (
	KindBatchDispatched = "BatchDispatched"
	KindRecipientAdded  = "RecipientAdded"
)

// Record is one entry of the append-only notification log. The service's
// contract ends at the append; subscribers poll the log, delivery to them is
// not tracked here.
type Record struct {
	ID        uint64
	Kind      string
	Payload   string
	CreatedAt time.Time
}
