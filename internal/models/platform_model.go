package models

// PlatformBinding is reference data describing one publish target. The
// scheduler only checks membership against it; account credentials and
// delivery live on the other side of the dispatch boundary.
type PlatformBinding struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	LogoURL string `db:"logo_url" json:"logo_url"`
}
