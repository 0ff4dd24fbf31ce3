package validators

import "strings"

// IsPhoneValid accepts the national mobile format the client sends:
// digits only, optionally prefixed with "+", 10 to 15 digits.
func IsPhoneValid(phone string) bool {
	p := strings.TrimPrefix(phone, "+")
	if len(p) < 10 || len(p) > 15 {
		return false
	}

	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
