package utils

import (
	"regexp"

	"github.com/mr-tron/base58"
)

// IdentityLength is the decoded byte length of an account identity.
const IdentityLength = 32

var assetIdRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)

// IsValidIdentity checks if the given string is a base58 encoded 32 byte identity.
// Note: it does not check that the identity exists anywhere.
func IsValidIdentity(id string) bool {
	if id == "" {
		return false
	}
	decoded, err := base58.Decode(id)
	if err != nil {
		return false
	}
	return len(decoded) == IdentityLength
}

// IsValidAssetId accepts either an identity or a short symbolic asset name.
func IsValidAssetId(assetId string) bool {
	return IsValidIdentity(assetId) || assetIdRegex.MatchString(assetId)
}
