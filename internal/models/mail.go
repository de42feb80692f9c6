package models

// Mail represents a single stored mail record
type Mail struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Subject string `gorm:"type:text;not null" json:"subject"`
	Body    string `gorm:"type:text;not null" json:"body"`
}

// TableName returns the table name for Mail
func (Mail) TableName() string {
	return "mail"
}
