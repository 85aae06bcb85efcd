// Package validate checks owner and scene identifiers before they are used
// to build storage keys.
package validate

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/scenevault/internal/common"
)

var (
	ownerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,16}$`)
	sceneIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,12}$`)
)

// OwnerID reports whether s is a syntactically valid owner id.
func OwnerID(s string) bool {
	return ownerIDPattern.MatchString(s)
}

// SceneID reports whether s is a syntactically valid scene id.
func SceneID(s string) bool {
	return sceneIDPattern.MatchString(s)
}

// Owner returns common.ErrInvalidIdentifier unless ownerID is valid.
func Owner(ownerID string) error {
	if !OwnerID(ownerID) {
		return fmt.Errorf("%w: owner %q", common.ErrInvalidIdentifier, ownerID)
	}
	return nil
}

// OwnerAndScene returns common.ErrInvalidIdentifier unless both ids are valid.
func OwnerAndScene(ownerID, sceneID string) error {
	if err := Owner(ownerID); err != nil {
		return err
	}
	if !SceneID(sceneID) {
		return fmt.Errorf("%w: scene %q", common.ErrInvalidIdentifier, sceneID)
	}
	return nil
}
