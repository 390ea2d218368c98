// Package data provides hashing and numeric-type helpers shared across the
// pattoo platform.
package data

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
)

// Supported digest selectors for Hashstring.
const (
	SHA1   = 1
	SHA256 = 256
	SHA384 = 384
	SHA512 = 512
)

// Hashstring returns the lowercase hex digest of the UTF-8 encoding of value.
// Unrecognized selectors fall back to SHA256, the platform default.
func Hashstring(value string, sha int) string {
	var sum []byte

	switch sha {
	case SHA1:
		digest := sha1.Sum([]byte(value))
		sum = digest[:]
	case SHA384:
		digest := sha512.Sum384([]byte(value))
		sum = digest[:]
	case SHA512:
		digest := sha512.Sum512([]byte(value))
		sum = digest[:]
	default:
		digest := sha256.Sum256([]byte(value))
		sum = digest[:]
	}

	return hex.EncodeToString(sum)
}

// HashstringBytes returns the ASCII bytes of the hex digest.
func HashstringBytes(value string, sha int) []byte {
	return []byte(Hashstring(value, sha))
}

// IsNumeric reports whether value is a numeric type or a string that parses
// as a number. Booleans and nil are not numeric.
func IsNumeric(value interface{}) bool {
	switch v := value.(type) {
	case nil, bool:
		return false
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	default:
		return false
	}
}
