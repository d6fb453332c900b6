package contact

import "time"

// Contact is one affiliate contact record. Rows originate from the
// spreadsheet import upstream of this service; here they are plain CRUD.
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Phone     string    `gorm:"uniqueIndex" json:"phone" binding:"required"`
	GroupName string    `gorm:"index" json:"group"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactsResponse represents the response for contact listing.
type ContactsResponse struct {
	Contacts []Contact `json:"contacts"`
	Total    int       `json:"total"`
}
