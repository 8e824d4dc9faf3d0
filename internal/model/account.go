package model

import (
	"encoding/json"
)

// Account is a single credential entry of an F-Secure KEY export.
// Only Password is required; every other field may be absent. Text fields
// accept any JSON scalar, so an entry with a numeric username still imports.
type Account struct {
	// Service is the display name of the account and the last element of
	// the destination path.
	Service FlexString `json:"service"`

	// Username for the account.
	Username FlexString `json:"username"`

	// Password is the secret and always the first line fed to pass.
	Password FlexString `json:"password"`

	// URL of the service.
	URL FlexString `json:"url"`

	// Notes contains free-form text.
	Notes FlexString `json:"notes"`

	// CreditNumber is the card number for payment card entries.
	CreditNumber FlexString `json:"creditNumber"`

	// CreditExpiry is the card expiry date as written by F-Secure.
	CreditExpiry FlexString `json:"creditExpiry"`

	// CreditCvv is the card verification value.
	CreditCvv FlexString `json:"creditCvv"`

	// The fields below are read but never written to the store.
	Style        FlexString        `json:"style,omitempty"`
	Rev          FlexString        `json:"rev,omitempty"`
	Favorite     FlexString        `json:"favorite,omitempty"`
	Type         FlexString        `json:"type,omitempty"`
	Color        FlexString        `json:"color,omitempty"`
	PasswordList []json.RawMessage `json:"passwordList,omitempty"`
}

// CreditCard is a view over the payment card fields of an account.
type CreditCard struct {
	Number string
	Expiry string
	CVV    string
}

// CreditCard returns the card fields, or nil when the account holds no card data.
func (a *Account) CreditCard() *CreditCard {
	if a == nil {
		return nil
	}
	if a.CreditNumber.IsEmpty() && a.CreditExpiry.IsEmpty() && a.CreditCvv.IsEmpty() {
		return nil
	}
	return &CreditCard{
		Number: a.CreditNumber.String(),
		Expiry: a.CreditExpiry.String(),
		CVV:    a.CreditCvv.String(),
	}
}

// metadataField pairs a pass metadata label with a value accessor.
type metadataField struct {
	label string
	value func(*Account) string
}

// metadataFields lists the optional metadata lines in the order they are
// written after the password.
var metadataFields = []metadataField{
	{"URL", func(a *Account) string { return a.URL.String() }},
	{"Username", func(a *Account) string { return a.Username.String() }},
	{"Notes", func(a *Account) string { return a.Notes.String() }},
	{"Card number", func(a *Account) string { return a.CreditNumber.String() }},
	{"Expiry date", func(a *Account) string { return a.CreditExpiry.String() }},
	{"CVV", func(a *Account) string { return a.CreditCvv.String() }},
}

// SecretLines returns the lines to feed to `pass insert --multiline`.
// The password is always the first line. When notes is true a
// "Label: value" line follows for every non-empty metadata field.
func (a *Account) SecretLines(notes bool) []string {
	lines := []string{a.Password.String()}
	if !notes {
		return lines
	}

	for _, f := range metadataFields {
		v := f.value(a)
		if v == "" {
			continue
		}
		lines = append(lines, f.label+": "+v)
	}
	return lines
}
