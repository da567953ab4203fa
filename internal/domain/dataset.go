package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Maximum length accepted for a dataset name.
const MaxDatasetNameLength = 120

// Common validation errors for Dataset
var (
	ErrEmptyDatasetID      = errors.New("dataset ID cannot be empty")
	ErrEmptyDatasetName    = errors.New("dataset name cannot be empty")
	ErrDatasetNameTooLong  = errors.New("dataset name exceeds maximum length")
)

// Dataset is a named collection of items. Items inside a dataset are
// addressed by a permanent integer identity assigned at append time; the
// dataset itself is addressed by UUID.
type Dataset struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDataset creates a new Dataset with the given name.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewDataset(name string) (*Dataset, error) {
	now := time.Now().UTC()
	ds := &Dataset{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	return ds, nil
}

// Validate checks if the Dataset has valid data.
// Returns an error if any field fails validation.
func (d *Dataset) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDatasetID
	}

	if d.Name == "" {
		return ErrEmptyDatasetName
	}

	if len(d.Name) > MaxDatasetNameLength {
		return ErrDatasetNameTooLong
	}

	return nil
}
