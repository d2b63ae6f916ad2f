package model

import "time"

// Term is an academic period (table terms). A term is active on a day when
// the day falls within [StartDate, EndDate].
type Term struct {
	TermID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	Name      string    `gorm:"type:varchar(100);not null"                     json:"name"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	BaseModel
}

// TableName maps to terms.
func (Term) TableName() string { return "terms" }
