package models

// Upload records a stored binary object. The owning record persists the
// returned URL; this row exists for bookkeeping and cleanup.
type Upload struct {
	BaseModel
	UserID          string `gorm:"not null;index"`
	FileType        string `gorm:"not null"` // resume, avatar, company_logo, chat_attachment, event_banner
	Path            string `gorm:"not null"`
	URL             string
	OriginalName    string
	MimeType        string
	Size            int64
	StorageProvider string `gorm:"default:'local'"` // local, s3, cloudflare_r2
}
