package entity

import "time"

// Customer belongs to exactly one Account. Mobile is unique within the
// owning account.
type Customer struct {
	ID          string
	AccountID   string
	Name        string
	Mobile      string
	AltMobile   string
	Email       string
	Address     string
	City        string
	Area        string
	Whatsapp    bool
	Gender      string // male, female
	Photo       string // object URL in GCS, empty if none
	Notes       string
	StylePref   string
	Birthday    *time.Time
	CreatedDate time.Time
	LastVisit   time.Time
}
