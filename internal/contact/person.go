// Package contact defines the contact record and the datasets it is served from.
package contact

import "strings"

// Person is a single contact record. Values are treated as immutable once loaded.
type Person struct {
	ID                string `json:"id"                yaml:"id"`
	FirstNameLastName string `json:"firstNameLastName" yaml:"firstNameLastName"`
	JobTitle          string `json:"jobTitle"          yaml:"jobTitle"`
	EmailAddress      string `json:"emailAddress"      yaml:"emailAddress"`
}

// Title returns the display name (list item interface).
func (p Person) Title() string { return p.FirstNameLastName }

// Description returns the secondary line shown under the name.
func (p Person) Description() string {
	switch {
	case p.JobTitle == "":
		return p.EmailAddress
	case p.EmailAddress == "":
		return p.JobTitle
	default:
		return p.JobTitle + " · " + p.EmailAddress
	}
}

// FilterValue returns the text used when filtering contacts.
func (p Person) FilterValue() string {
	return strings.Join([]string{p.FirstNameLastName, p.JobTitle, p.EmailAddress}, " ")
}
