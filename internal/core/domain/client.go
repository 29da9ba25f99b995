package domain

import "time"

const (
	// MaxClientNameLen is the limit, in characters, for a client name.
	MaxClientNameLen = 200
	// MaxContactInfoLen is the limit, in characters, for contact details.
	MaxContactInfoLen = 255
	// DateLayout is the wire format for date_of_birth.
	DateLayout = "2006-01-02"
)

// ProgramRef is the resolved program reference embedded in client reads.
// Every read of a client carries id and name of each enrolled program,
// never bare ids.
type ProgramRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client is a registered patient record.
//
// EnrolledPrograms is a set: membership is unique and order carries no
// meaning. It changes only through the enroll operation, never through
// client create or update.
type Client struct {
	ID               int64        `json:"id" bson:"_id"`
	Name             string       `json:"name" bson:"name"`
	DateOfBirth      string       `json:"date_of_birth" bson:"date_of_birth"`
	ContactInfo      string       `json:"contact_info" bson:"contact_info"`
	EnrolledPrograms []ProgramRef `json:"enrolled_programs" bson:"-"`
}

// ValidDate reports whether s parses as a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
