package obs

import "encoding/base64"

// EncodeCredentials returns the token used in a Basic Authorization header
// for the given user id and password.
func EncodeCredentials(id, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(id + ":" + password))
}
