package phone

import "strings"

const brazilCountryCode = "55"

// Digits оставляет в номере только цифры
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidBrazilian проверяет бразильский номер:
//   - 10 цифр: (XX) XXXX-XXXX, фиксированный
//   - 11 цифр: (XX) 9XXXX-XXXX, мобильный
//   - 12-13 цифр: то же с кодом страны 55
func IsValidBrazilian(raw string) bool {
	digits := Digits(raw)

	switch len(digits) {
	case 10, 11:
		return true
	case 12, 13:
		return strings.HasPrefix(digits, brazilCountryCode)
	default:
		return false
	}
}
