// Package models defines client-side views of server data.
package models

import "time"

// SceneInfo is one entry of an owner's scene listing.
type SceneInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CreatedAt  int64  `json:"created"`
	ModifiedAt int64  `json:"modified"`
}

func (s SceneInfo) Created() time.Time  { return time.UnixMilli(s.CreatedAt) }
func (s SceneInfo) Modified() time.Time { return time.UnixMilli(s.ModifiedAt) }
