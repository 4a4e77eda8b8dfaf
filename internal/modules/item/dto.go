package item

// positionDTO is the drag-stop write-back body.
type positionDTO struct {
	X        *float64 `json:"x"       binding:"required"`
	Y        *float64 `json:"y"       binding:"required"`
	Version  int64    `json:"version" binding:"required"`
	DragMode bool     `json:"dragMode"`
}

// sizeDTO is the resize-stop write-back body.
type sizeDTO struct {
	Width      *float64 `json:"width"   binding:"required"`
	Height     *float64 `json:"height"  binding:"required"`
	Version    int64    `json:"version" binding:"required"`
	ResizeMode bool     `json:"resizeMode"`
}

// fontDTO is the font stepper body.
type fontDTO struct {
	Direction string `json:"direction" binding:"required,oneof=increase decrease"`
	Version   int64  `json:"version"   binding:"required"`
}
