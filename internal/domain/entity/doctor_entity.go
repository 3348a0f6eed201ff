package entity

import (
	"strings"
	"time"
)

// Address is always written as a unit. A nil field is an absent sub-field.
type Address struct {
	Street *string `json:"street,omitempty"`
	City   *string `json:"city,omitempty"`
	Parish *string `json:"parish,omitempty"`
}

// Doctor is a registered practitioner account.
// Password always holds a bcrypt hash and is never serialised.
type Doctor struct {
	ID         string    `json:"_id"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Username   string    `json:"username,omitempty"`
	FName      string    `json:"fname"`
	LName      string    `json:"lname"`
	Department string    `json:"department"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	Address    Address   `json:"address"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DefaultPassword derives the initial credential from the doctor's name:
// first letter of fname, a dot, then lname, upper-cased ("Jane","Doe" -> "J.DOE").
func DefaultPassword(fname, lname string) string {
	initial := ""
	if r := []rune(fname); len(r) > 0 {
		initial = string(r[0])
	}
	return strings.ToUpper(initial + "." + lname)
}
