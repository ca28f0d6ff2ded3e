package models

import "time"

// We use 'db' tags for sqlx to map the snake_case column names to our Go
// fields, and 'json' tags matching the field names the public pages expect.

// DonorTiers is the closed set of accepted donor tiers.
var DonorTiers = []string{"Platinum", "Gold", "Silver", "Bronze"}

// ValidDonorTier reports whether tier is one of DonorTiers.
func ValidDonorTier(tier string) bool {
	for _, t := range DonorTiers {
		if t == tier {
			return true
		}
	}
	return false
}

// Donor represents one entry on the public donor wall.
type Donor struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Tier             string    `db:"tier" json:"tier"`
	LogoURL          *string   `db:"logo_url" json:"logoUrl,omitempty"`
	LogoBackendRef   *string   `db:"logo_backend_ref" json:"logoBackendRef,omitempty"`
	Website          *string   `db:"website" json:"website,omitempty"`
	DonatedAmount    *float64  `db:"donated_amount" json:"donatedAmount,omitempty"`
	DonatedCommodity *string   `db:"donated_commodity" json:"donatedCommodity,omitempty"`
	Position         int       `db:"position" json:"position"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}

// GalleryImage represents one uploaded gallery photo. BackendRef holds the
// cloud object name when the image lives in the cloud backend; it is empty
// for local-disk uploads.
type GalleryImage struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	URL        string    `db:"url" json:"url"`
	BackendRef *string   `db:"backend_ref" json:"backendRef,omitempty"`
	Featured   bool      `db:"featured" json:"featured"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Member represents one person on the team page. Position drives the manual
// ordering set by the admin reorder operation.
type Member struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Role            string    `db:"role" json:"role"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	InstaID         *string   `db:"insta_id" json:"instaId,omitempty"`
	Email           *string   `db:"email" json:"email,omitempty"`
	Contact         *string   `db:"contact" json:"contact,omitempty"`
	PhotoURL        *string   `db:"photo_url" json:"photoUrl,omitempty"`
	PhotoBackendRef *string   `db:"photo_backend_ref" json:"photoBackendRef,omitempty"`
	Position        int       `db:"position" json:"position"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// DefaultMemberRole is assigned when a member is created without a role.
// Role is intentionally a free string so deployments can add titles without
// a schema change.
const DefaultMemberRole = "Core"
