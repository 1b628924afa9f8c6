package signature

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// BuildQuery canonicalizes a parameter set into the form the payment
// gateway signs: every key and value URL-encoded (spaces become '+'),
// pairs sorted lexicographically on the encoded key, joined with '&'.
// Empty values are skipped, matching the gateway convention.
func BuildQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))

	for key, value := range params {
		if value == "" {
			continue
		}

		keys = append(keys, url.QueryEscape(key))
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))

	for _, encodedKey := range keys {
		key, _ := url.QueryUnescape(encodedKey)
		pairs = append(pairs, encodedKey+"="+url.QueryEscape(params[key]))
	}

	return strings.Join(pairs, "&")
}

// HashValue computes the hex-encoded HMAC-SHA512 of the canonical query
// string of params under the shared secret.
func HashValue(params map[string]string, secret string) string {
	return Sign(BuildQuery(params), secret)
}

// Sign computes the hex-encoded HMAC-SHA512 of data under secret.
func Sign(data, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature over params and compares it against the
// inbound one. The comparison is exact and case-sensitive: the gateway
// always sends lowercase hex, anything else is a forgery or corruption.
func Verify(params map[string]string, secret, inbound string) bool {
	return HashValue(params, secret) == inbound
}
