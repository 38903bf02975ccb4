package batch

import "time"

// Dispatch limits. A batch is rejected before any state is written when a
// request falls outside these bounds.
const (
	MaxRecipients   = 1000
	MaxContentBytes = 2000
)

// NullIdentity is the zero value of the identity address space. It is never a
// valid sender or recipient.
const NullIdentity = ""

// Batch represents one dispatch event: a sender, the filtered recipient list
// and the message that was recorded for them. Recipients keep their submission
// order, including repeated occurrences of the same identity; the per-recipient
// delivery slots collapse duplicates to a single entry.
type Batch struct {
	ID           uint64
	Sender       string
	Recipients   []string
	Content      string
	Timestamp    uint64
	MessageType  string
	Completed    bool
	ResourceUsed uint64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DeliveryStatus is one per-recipient delivery slot of a batch. Slots are
// created false and are not flipped by any operation in this service; actual
// transport to recipients happens outside of it.
type DeliveryStatus struct {
	BatchID   uint64
	Recipient string
	Delivered bool
}

// IDispatchService defines the batch dispatch entry points.
type IDispatchService interface {
	DispatchDirect(request *DispatchRequest) (*Batch, error)
	DispatchToGroup(request *GroupDispatchRequest) (*Batch, error)
	DispatchWithTemplate(request *TemplateDispatchRequest) (*Batch, error)
}

// DispatchRequest carries a direct dispatch: an explicit recipient list.
type DispatchRequest struct {
	Sender      string
	Recipients  []string
	Content     string
	MessageType string
	Paid        uint64
}

// GroupDispatchRequest dispatches to every member of a group except the caller.
type GroupDispatchRequest struct {
	Sender      string
	GroupID     uint64
	Content     string
	MessageType string
	Paid        uint64
}

// TemplateDispatchRequest dispatches a stored template body to an explicit
// recipient list. Any content supplied by the caller is ignored.
type TemplateDispatchRequest struct {
	Sender      string
	TemplateID  uint64
	Recipients  []string
	MessageType string
	Paid        uint64
}
