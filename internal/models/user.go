package models

type User struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// UserPatch carries the fields of a partial user update; nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}
