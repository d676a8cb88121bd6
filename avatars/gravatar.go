package avatars

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// GravatarBaseURL is the prefix of every default avatar
const GravatarBaseURL = "https://www.gravatar.com/avatar/"

// GravatarURL returns the default avatar for email. The same email always
// yields the same URL.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return GravatarBaseURL + hex.EncodeToString(sum[:])
}
