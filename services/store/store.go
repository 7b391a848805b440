package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/webfindlead/leadworker/internal/classify"
	"github.com/webfindlead/leadworker/internal/scan"
)

// StoredLead is one persisted lead row.
type StoredLead struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Category      string             `json:"category"`
	Rating        float64            `json:"rating"`
	Reviews       int                `json:"reviews"`
	Website       string             `json:"website,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	Email         string             `json:"email,omitempty"`
	MapsURL       string             `json:"mapsUrl,omitempty"`
	WebsiteStatus scan.WebsiteStatus `json:"websiteStatus"`
	Socials       map[string]string  `json:"socials,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// LeadStore persists scanned records with at-most-once insertion per
// canonical identity. Identity is the normalized maps link when present,
// the business name otherwise.
type LeadStore interface {
	// SaveLeads inserts records that are not already present and reports
	// how many were saved.
	SaveLeads(ctx context.Context, leads []scan.BusinessRecord) (int, error)

	// UpdateClassification applies a terminal website analysis to the lead
	// with the given identity key.
	UpdateClassification(ctx context.Context, identityKey string, analysis classify.Analysis) error

	// ListLeads returns stored leads, newest first.
	ListLeads(ctx context.Context, limit int) ([]StoredLead, error)

	// Close releases the underlying connections.
	Close()
}
