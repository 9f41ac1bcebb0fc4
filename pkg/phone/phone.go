package phone

import (
	"github.com/nyaruka/phonenumbers"
)

// Normalize formats a parseable number as E.164, using region as the
// default country for numbers written without a prefix. Anything that
// does not parse as a valid number is returned verbatim: the pipeline
// would rather keep a scribbled note in the phone field than lose it.
func Normalize(raw, region string) string {
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// IsValid reports whether raw parses as a valid number for the region
func IsValid(raw, region string) bool {
	num, err := phonenumbers.Parse(raw, region)
	return err == nil && phonenumbers.IsValidNumber(num)
}
