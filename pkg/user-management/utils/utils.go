package utils

import (
	"strings"
	"unicode/utf16"
)

const PASSWORD_MIN_LEN = 6

func SanitizeEmail(email string) string {
	email = strings.ToLower(email)
	email = strings.Trim(email, " \n\r\t")
	return email
}

// BlurEmailAddress transforms an email address to reduce exposed personal info
func BlurEmailAddress(email string) string {
	items := strings.Split(email, "@")
	if len(items) < 1 || len(items[0]) < 1 {
		return "****@**"
	}

	blurredEmail := string([]rune(items[0])[0]) + "****@" + strings.Join(items[1:], "")
	return blurredEmail
}

// CheckPasswordFormat to check if password fulfills password rules.
// Length is counted in UTF-16 code units, so characters outside the BMP count twice.
func CheckPasswordFormat(password string) bool {
	return passwordLength(password) >= PASSWORD_MIN_LEN
}

func passwordLength(password string) int {
	n := 0
	for _, r := range password {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

func SanitizeTitle(title string) string {
	return strings.TrimSpace(title)
}
