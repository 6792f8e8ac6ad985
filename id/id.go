// Package id generates the identifiers of conversations and messages.
// User IDs come from the identity collaborator and are not checked here.
package id

import "github.com/rs/xid"

// Generate returns a new xid. Sorting xids roughly sorts by creation time.
func Generate() string {
	return xid.New().String()
}

func Valid(s string) bool {
	id, err := xid.FromString(s)
	return err == nil && !id.IsNil()
}
