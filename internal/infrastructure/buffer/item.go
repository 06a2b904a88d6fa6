package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Buffered entities.
const (
	EntityProgress = "progress"
	EntityProfile  = "profile"
	EntityTask     = "task"
)

// Buffered operations.
const (
	OperationCommit = "commit"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Priorities, lowest value drained first.
const (
	PriorityProgress = 1
	PriorityTask     = 2
	PriorityProfile  = 3
	priorityDefault  = 3
	priorityMax      = 5
)

// Item is a write that could not reach the primary store and waits for
// replay.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

// NewItem marshals payload into an item.
func NewItem(userID, entity, operation string, priority int, payload any) (Item, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Item{}, err
	}
	return Item{
		UserID:    userID,
		Entity:    entity,
		Operation: operation,
		Data:      data,
		Priority:  priority,
	}, nil
}

// Decode unmarshals the item payload into v.
func (i Item) Decode(v any) error {
	return json.Unmarshal(i.Data, v)
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > priorityMax {
		i.Priority = priorityDefault
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
