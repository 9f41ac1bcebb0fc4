package models

import "time"

// Client represents an agency customer. ERPID links the record to the
// remote Customer document, or holds a LOCAL-<timestamp> sentinel when
// the remote create has not succeeded yet.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ERPID        string    `json:"erpId"`
	Token        string    `json:"token"`
	Instagram    string    `json:"instagram,omitempty"`
	Industry     string    `json:"industry,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`

	// SyncPending flags a record whose remote counterpart is missing.
	SyncPending bool `json:"sync_pending,omitempty"`
}

// CreateClientRequest represents a client creation request
type CreateClientRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Instagram    string `json:"instagram,omitempty"`
	Industry     string `json:"industry,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty" validate:"omitempty,email"`
}

// UpdateClientRequest represents a client update request
type UpdateClientRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Instagram    *string `json:"instagram,omitempty"`
	Industry     *string `json:"industry,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
}
