package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Site represents a generated site record
type Site struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	BusinessType string          `json:"business_type"`
	OutputDir    string          `json:"output_dir"`
	Config       json.RawMessage `json:"config,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SiteContent is the generated copy of a site in one language.
// Origins records which source produced each section.
type SiteContent struct {
	SiteID    uuid.UUID         `json:"site_id"`
	Language  string            `json:"language"`
	Content   json.RawMessage   `json:"content"`
	Origins   map[string]string `json:"origins,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// DefaultListLimit caps ListSites when no positive limit is given
const DefaultListLimit = 50
