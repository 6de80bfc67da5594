package domain

import "time"

// Record is the optimistic-concurrency envelope embedded in every persisted
// entity. ID and LastModified are owned by the store; Version is the token a
// writer must present to update or delete the document.
type Record struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Version      int       `json:"version" gorm:"not null"`
	LastModified time.Time `json:"lastModified" gorm:"not null"`
}

// Envelope gives generic store code access to the embedded record.
func (r *Record) Envelope() *Record {
	return r
}

// IsNew reports whether the record has not been inserted yet.
func (r *Record) IsNew() bool {
	return r.ID == ""
}

// Enveloped is implemented by pointers to every persisted entity.
type Enveloped interface {
	Envelope() *Record
}
