package domain

// MaxProgramNameLen is the limit, in characters, for a program name.
const MaxProgramNameLen = 100

// Program is a named health initiative clients can enroll in.
// Names are globally unique, compared exactly as stored.
type Program struct {
	ID   int64  `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}
