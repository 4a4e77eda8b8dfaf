package models

import "time"

// Item type discriminator. Media items carry no explicit type.
const (
	ItemTypeMedia = ""
	ItemTypeText  = "text"
)

// Default geometry for freshly placed items.
const (
	ItemDefaultSize     = 200.0
	ItemDefaultFontSize = 14.0
)

// ItemModel is a placed media or text element. The document key is the
// composite identifier "{pageNumber}_{token}"; PageNumber duplicates the
// leading segment as an indexed field so grouping never depends on parsing
// the key per read.
//
// For text items MostRecentUploadURL carries the literal text (historical
// wire format); for media it is the blob download URL.
type ItemModel struct {
	ID                  string    `bson:"_id"                 json:"id"`
	PageNumber          int       `bson:"pageNumber"          json:"pageNumber"`
	Type                string    `bson:"type,omitempty"      json:"type,omitempty"`
	Text                string    `bson:"text,omitempty"      json:"text,omitempty"`
	MostRecentUploadURL string    `bson:"mostRecentUploadURL" json:"mostRecentUploadURL"`
	X                   float64   `bson:"x"                   json:"x"`
	Y                   float64   `bson:"y"                   json:"y"`
	Width               float64   `bson:"width"               json:"width"`
	Height              float64   `bson:"height"              json:"height"`
	FontSize            float64   `bson:"fontSize,omitempty"  json:"fontSize,omitempty"`
	Version             int64     `bson:"version"             json:"version"`
	CreatedAt           time.Time `bson:"created"             json:"created"`
	UpdatedAt           time.Time `bson:"modified"            json:"modified"`
}

func (ItemModel) CollectionName() string { return "items" }

// IsText reports whether the item is a text box. Classification is
// structural, never derived from the URL.
func (i *ItemModel) IsText() bool { return i.Type == ItemTypeText }
