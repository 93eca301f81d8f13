// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package content identifies the CMS content a widget is attached to.
package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/yomira-widgets/internal/platform/validate"
)

// Type discriminates the parent entity of a comment or rating collection.
type Type string

const (
	TypeNews    Type = "news"
	TypeAlbum   Type = "album"
	TypeChapter Type = "chapter"
)

// Valid reports whether t is a known content type.
func (t Type) Valid() bool {
	switch t {
	case TypeNews, TypeAlbum, TypeChapter:
		return true
	}
	return false
}

// Commentable reports whether comment threads exist for this content type.
// Chapters only carry ratings.
func (t Type) Commentable() bool {
	return t == TypeNews || t == TypeAlbum
}

// Ref identifies one piece of CMS content. It never changes for the lifetime
// of a widget instance.
type Ref struct {
	Type Type  `json:"content_type"`
	ID   int64 `json:"content_id"`
}

// Parse builds a [Ref] from raw request values.
func Parse(rawType, rawID string) (Ref, error) {
	ref := Ref{Type: Type(strings.ToLower(strings.TrimSpace(rawType)))}

	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil {
		return Ref{}, validate.ErrInvalidPayload
	}
	ref.ID = id

	if err := ref.Validate(); err != nil {
		return Ref{}, err
	}
	return ref, nil
}

// Validate checks the type is known and the ID positive.
func (r Ref) Validate() error {
	v := &validate.Validator{}
	v.OneOf("content_type", string(r.Type), string(TypeNews), string(TypeAlbum), string(TypeChapter))
	v.Positive("content_id", r.ID)
	return v.Err()
}

// Key is the instance scope of the ref, e.g. "album-10".
func (r Ref) Key() string {
	return fmt.Sprintf("%s-%d", r.Type, r.ID)
}

// String implements fmt.Stringer.
func (r Ref) String() string { return r.Key() }
