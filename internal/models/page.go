package models

import "time"

// PageModel is one page of the scrapbook. The document key is the display
// label ("Page 3"); labels are assigned from the catalog size at creation
// time and never renumbered, so gaps appear after deletes.
type PageModel struct {
	ID        string    `bson:"_id"      json:"id"`
	Page      string    `bson:"page"     json:"page"`
	Title     string    `bson:"title"    json:"title"`
	CreatedAt time.Time `bson:"created"  json:"created"`
	UpdatedAt time.Time `bson:"modified" json:"modified"`
}

func (PageModel) CollectionName() string { return "pages" }
