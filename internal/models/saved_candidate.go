package models

// SavedCandidate is an employer's bookmark of an employee profile.
// Presence of the row is the saved state.
type SavedCandidate struct {
	BaseModel
	EmployerID string `gorm:"not null;index;uniqueIndex:idx_saved_candidate"`
	EmployeeID string `gorm:"not null;index;uniqueIndex:idx_saved_candidate"`
	// Denormalized for listing without joins
	EmployeeName   string
	EmployeeAvatar string
}
