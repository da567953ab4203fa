package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewItem(t *testing.T) {
	t.Parallel()

	datasetID := uuid.New()
	payload := json.RawMessage(`{"reading": 42}`)

	item, err := NewItem(datasetID, 0, payload)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if item.DatasetID != datasetID {
		t.Errorf("Expected dataset ID %s, got %s", datasetID, item.DatasetID)
	}

	if item.Identity != 0 {
		t.Errorf("Expected identity 0, got %d", item.Identity)
	}

	if !item.Live() {
		t.Error("Expected a freshly created item to be live")
	}

	if item.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Nil dataset ID
	if _, err = NewItem(uuid.Nil, 0, payload); err != ErrItemDatasetIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrItemDatasetIDEmpty, err)
	}

	// Negative identity
	if _, err = NewItem(datasetID, -1, payload); err != ErrNegativeItemID {
		t.Errorf("Expected error %v, got %v", ErrNegativeItemID, err)
	}

	// Empty payload
	if _, err = NewItem(datasetID, 0, nil); err != ErrEmptyItemPayload {
		t.Errorf("Expected error %v, got %v", ErrEmptyItemPayload, err)
	}

	// Malformed payload
	if _, err = NewItem(datasetID, 0, json.RawMessage(`{broken`)); err != ErrInvalidItemPayload {
		t.Errorf("Expected error %v, got %v", ErrInvalidItemPayload, err)
	}
}

func TestItemLive(t *testing.T) {
	t.Parallel()

	item, err := NewItem(uuid.New(), 3, json.RawMessage(`"x"`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now := time.Now().UTC()
	item.DeletedAt = &now

	if item.Live() {
		t.Error("Expected tombstoned item not to be live")
	}
}
