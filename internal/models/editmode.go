package models

import "time"

// EditModeDocID is the well-known key of the singleton edit-mode document.
const EditModeDocID = "editMode"

// EditModeModel is the shared edit-mode switch. One document, one boolean,
// observed live by every viewer session.
type EditModeModel struct {
	ID        string    `bson:"_id"      json:"-"`
	Enabled   bool      `bson:"enabled"  json:"enabled"`
	UpdatedAt time.Time `bson:"modified" json:"modified"`
}

func (EditModeModel) CollectionName() string { return "editor_mode" }
