package message

import (
	"time"

	"github.com/huynhanx03/go-sharedqueue/pkg/utils"
)

// Message is an immutable payload moving from the producer, through the
// queue, to exactly one consumer. The body is copied on construction and
// never handed out by reference, so a Message can be shared freely.
type Message struct {
	id         int64
	body       []byte
	producedAt time.Time
}

// New copies body into a new Message.
func New(id int64, body []byte, producedAt time.Time) Message {
	owned := make([]byte, len(body))
	copy(owned, body)
	return Message{id: id, body: owned, producedAt: producedAt}
}

// NewString creates a Message from a text payload.
func NewString(id int64, body string, producedAt time.Time) Message {
	return New(id, utils.StringToBytes(body), producedAt)
}

// ID returns the unique message ID.
func (m Message) ID() int64 { return m.id }

// ProducedAt returns when the producer created the message.
func (m Message) ProducedAt() time.Time { return m.producedAt }

// Len returns the payload size in bytes.
func (m Message) Len() int { return len(m.body) }

// Body returns a copy of the payload.
func (m Message) Body() []byte {
	out := make([]byte, len(m.body))
	copy(out, m.body)
	return out
}

// String returns the payload as text without copying.
func (m Message) String() string {
	return utils.BytesToString(m.body)
}

// Key returns the big-endian encoded ID, used as partition or sort key.
func (m Message) Key() []byte {
	return utils.Int64ToBytesByBigEndian(m.id)
}

// IsZero reports whether m is the zero Message.
func (m Message) IsZero() bool {
	return m.id == 0 && m.body == nil && m.producedAt.IsZero()
}
