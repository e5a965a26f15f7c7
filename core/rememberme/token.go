package rememberme

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const fieldSeparator = "::"

// EncodeToken packs a user id and an optional secret into a cookie-safe token.
func EncodeToken(userID int64, secret string) string {
	raw := strconv.FormatInt(userID, 10) + fieldSeparator + secret
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeToken reverses EncodeToken. Any token that does not decode into
// exactly two fields with an integer first field is ErrCorruptedToken.
func DecodeToken(token string) (int64, string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, "", ErrCorruptedToken
	}

	fields := strings.Split(string(raw), fieldSeparator)
	if len(fields) != 2 {
		return 0, "", ErrCorruptedToken
	}

	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", ErrCorruptedToken
	}

	return userID, fields[1], nil
}
