package catalog

import "github.com/scrapbook-space/core/internal/modules/layout"

type pageDTO struct {
	Title string `json:"title" binding:"required"`
}

// layoutDTO is the resolved render plan for one page and viewport.
type layoutDTO struct {
	Page     string             `json:"page"`
	Regime   layout.Regime      `json:"regime"`
	EditMode bool               `json:"editMode"`
	Frame    layout.PageFrame   `json:"frame"`
	Items    []layout.ItemFrame `json:"items"`
}
