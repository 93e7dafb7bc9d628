package model

// Media is a reference to a remotely hosted asset owned by an entity.  ID is
// the storage provider's public id and is what deletion needs; URL is the
// secure delivery URL handed to clients.
type Media struct {
	ID  string `bson:"public_id" json:"public_id"`
	URL string `bson:"url" json:"url"`
}

// IsZero reports whether no asset is referenced.
func (m Media) IsZero() bool { return m.ID == "" && m.URL == "" }

// Folder labels partition uploaded assets by owning entity.
const (
	FolderAvatar              = "AVATAR"
	FolderResume              = "RESUME"
	FolderProjectBanner       = "PORTFOLIO_PROJECT_BANNER"
	FolderSkill               = "PORTFOLIO_SKILL"
	FolderSoftwareApplication = "PORTFOLIO_SOFTWARE_APPLICATION"
)
