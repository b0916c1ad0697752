package models

// HelpSession is a help-desk thread between a user and the platform admins.
type HelpSession struct {
	BaseModel
	UserID   string            `gorm:"not null;index"`
	UserRole UserRole          `gorm:"type:varchar(20);not null"`
	UserName string
	Subject  string            `gorm:"not null"`
	Status   HelpSessionStatus `gorm:"type:varchar(20);default:'open';index"`
	AdminID  *string           `gorm:"index"` // set when an admin claims the session

	Messages []HelpMessage `gorm:"foreignKey:SessionID"`
}

// HelpMessage is append-only.
type HelpMessage struct {
	BaseModel
	SessionID string `gorm:"not null;index"`
	SenderID  string `gorm:"not null"`
	FromAdmin bool   `gorm:"default:false"`
	Content   string `gorm:"type:text;not null"`
}
