package events

import "strings"

// ExtractPostalCode scans an address for the first 5-digit (optionally ZIP+4)
// token. Returns "" when the address carries no postal code.
func ExtractPostalCode(address string) string {
	for _, token := range strings.FieldsFunc(address, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		if zip := zipToken(token); zip != "" {
			return zip
		}
	}
	return ""
}

func zipToken(token string) string {
	digits := token
	if idx := strings.IndexByte(token, '-'); idx == 5 {
		digits = token[:5]
	}
	if len(digits) != 5 {
		return ""
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return ""
		}
	}
	return digits
}

// ExtractCityAndState pulls a best-effort (city, state) pair out of a
// comma-separated address such as "7375 Rollingdell Dr, Cupertino, CA 95014".
// Either value may be "" when the pattern is not recognizable.
func ExtractCityAndState(address string) (string, string) {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	state := ""
	city := ""
	for i := len(parts) - 1; i >= 0; i-- {
		fields := strings.Fields(parts[i])
		for _, field := range fields {
			if len(field) == 2 && field == strings.ToUpper(field) && isAlpha(field) {
				state = field
				if i > 0 {
					city = parts[i-1]
				}
				return city, state
			}
		}
	}
	if len(parts) >= 2 {
		city = parts[len(parts)-2]
	} else if len(parts) == 1 {
		city = parts[0]
	}
	return city, state
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
