package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Item
var (
	ErrItemDatasetIDEmpty  = errors.New("item dataset ID cannot be empty")
	ErrNegativeItemID      = errors.New("item identity cannot be negative")
	ErrEmptyItemPayload    = errors.New("item payload cannot be empty")
	ErrInvalidItemPayload  = errors.New("item payload must be valid JSON")
)

// Item is a single element of a dataset.
//
// Identity is assigned once when the item is appended, is unique among all
// items the dataset has ever held, and is never reused or renumbered.
// Deleting an item tombstones its slot; the identities of surviving items
// do not move. That stability is what the cursor paginator builds on.
type Item struct {
	DatasetID uuid.UUID       `json:"dataset_id"`
	Identity  int64           `json:"identity"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`

	// DeletedAt is non-nil once the item has been tombstoned. Stores only
	// hand out live items; the field exists so audit paths can see the full
	// history of a slot.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// NewItem builds an item for the given dataset slot. The caller (a store)
// supplies the identity it has just assigned.
// Returns an error if validation fails.
func NewItem(datasetID uuid.UUID, identity int64, payload json.RawMessage) (*Item, error) {
	item := &Item{
		DatasetID: datasetID,
		Identity:  identity,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks if the Item has valid data.
// Returns an error if any field fails validation.
func (i *Item) Validate() error {
	if i.DatasetID == uuid.Nil {
		return ErrItemDatasetIDEmpty
	}

	if i.Identity < 0 {
		return ErrNegativeItemID
	}

	if len(i.Payload) == 0 {
		return ErrEmptyItemPayload
	}

	if !json.Valid(i.Payload) {
		return ErrInvalidItemPayload
	}

	return nil
}

// Live reports whether the item has not been tombstoned.
func (i *Item) Live() bool {
	return i.DeletedAt == nil
}
