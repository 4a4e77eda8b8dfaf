package layout

import "github.com/scrapbook-space/core/internal/models"

// Responsive layout constants. The breakpoint splits double-column "book"
// rendering from the read-mostly single-column mode.
const (
	DefaultBreakpoint = 1400

	doublePageHeightFactor   = 2.5
	singlePageHeightFactor   = 3.0
	singleMediaHeightDivisor = 3.0
	singleColumnOffset       = 16.0
)

// Font sizing rules shared by resize-stop and the font stepper.
const (
	MinFontSize    = 10.0
	fontWidthRatio = 20.0
)

// Regime is the active responsive layout mode.
type Regime string

const (
	RegimeDouble Regime = "double" // two facing pages
	RegimeSingle Regime = "single" // one full-width page, manipulation off
)

// Viewport is the client viewport in pixels.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RegimeFor selects the layout regime: single-column below the breakpoint.
func RegimeFor(v Viewport, breakpoint int) Regime {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	if v.Width < float64(breakpoint) {
		return RegimeSingle
	}
	return RegimeDouble
}

// PageFrame is the rendered page surface.
type PageFrame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageFrameFor computes the page surface for a viewport. Double-column mode
// renders two facing pages at half width; single-column stretches one page
// across the viewport with a taller surface.
func PageFrameFor(v Viewport, r Regime) PageFrame {
	if r == RegimeSingle {
		return PageFrame{Width: v.Width, Height: v.Height * singlePageHeightFactor}
	}
	return PageFrame{Width: v.Width / 2, Height: v.Height * doublePageHeightFactor}
}

// ItemFrame is the renderable geometry of one item, with the manipulation
// affordances already resolved against edit mode and the active regime.
type ItemFrame struct {
	ID        string      `json:"id"`
	Kind      ContentKind `json:"kind"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Width     float64     `json:"width"`
	Height    float64     `json:"height"`
	FontSize  float64     `json:"fontSize,omitempty"`
	Draggable bool        `json:"draggable"`
	Resizable bool        `json:"resizable"`
}

// ItemFrameFor reconciles an item's stored attributes with the regime and
// manipulation state. Single-column mode pins items at a fixed nominal
// offset and scales content down; stored geometry is never written from
// that regime.
func ItemFrameFor(item *models.ItemModel, r Regime, m Modes) ItemFrame {
	frame := ItemFrame{
		ID:     item.ID,
		Kind:   Classify(item),
		X:      item.X,
		Y:      item.Y,
		Width:  defaultIfZero(item.Width, models.ItemDefaultSize),
		Height: defaultIfZero(item.Height, models.ItemDefaultSize),
	}
	if frame.Kind == KindText {
		frame.FontSize = defaultIfZero(item.FontSize, models.ItemDefaultFontSize)
	}

	if r == RegimeSingle {
		frame.X = singleColumnOffset
		frame.Y = singleColumnOffset
		switch frame.Kind {
		case KindText:
			frame.FontSize /= 2
		default:
			frame.Height /= singleMediaHeightDivisor
		}
		return frame
	}

	// Manipulation is inert without edit mode, whatever the toggles say.
	frame.Draggable = m.Edit && m.Drag
	frame.Resizable = m.Edit && m.Resize
	return frame
}

// DerivedFontSize couples text legibility to the resized width.
func DerivedFontSize(width float64) float64 {
	size := width / fontWidthRatio
	if size < MinFontSize {
		return MinFontSize
	}
	return size
}

// FontDirection is a font stepper direction.
type FontDirection string

const (
	FontIncrease FontDirection = "increase"
	FontDecrease FontDirection = "decrease"
)

// NextFontSize steps the font size by one pixel, clamped at the floor.
// A zero current size means the stored default.
func NextFontSize(current float64, d FontDirection) float64 {
	size := defaultIfZero(current, models.ItemDefaultFontSize)
	if d == FontDecrease {
		size--
	} else {
		size++
	}
	if size < MinFontSize {
		return MinFontSize
	}
	return size
}

func defaultIfZero(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
