// Package toast renders dismissible notification fragments for HTMX swaps.
package toast

import twmerge "github.com/Oudwins/tailwind-merge-go"

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
)

type Props struct {
	ID            string
	Class         string
	Title         string
	Description   string
	Variant       Variant
	Position      Position
	Duration      int // milliseconds; 0 keeps the toast until dismissed
	Dismissible   bool
	ShowIndicator bool
	Icon          bool
}

var positionClasses = map[Position]string{
	PositionTopRight:     "top-4 right-4",
	PositionTopLeft:      "top-4 left-4",
	PositionTopCenter:    "top-4 left-1/2 -translate-x-1/2",
	PositionBottomRight:  "bottom-4 right-4",
	PositionBottomLeft:   "bottom-4 left-4",
	PositionBottomCenter: "bottom-4 left-1/2 -translate-x-1/2",
}

var variantClasses = map[Variant]string{
	VariantDefault: "border-gray-200 bg-white text-gray-900",
	VariantSuccess: "border-green-300 bg-green-50 text-green-900",
	VariantError:   "border-red-300 bg-red-50 text-red-900",
	VariantWarning: "border-amber-300 bg-amber-50 text-amber-900",
	VariantInfo:    "border-sky-300 bg-sky-50 text-sky-900",
}

var icons = map[Variant]string{
	VariantSuccess: "✓",
	VariantError:   "✕",
	VariantWarning: "!",
	VariantInfo:    "i",
}

// Classes returns the merged class list for p; p.Class overrides the
// defaults.
func Classes(p Props) string {
	pos, ok := positionClasses[p.Position]
	if !ok {
		pos = positionClasses[PositionBottomRight]
	}
	variant, ok := variantClasses[p.Variant]
	if !ok {
		variant = variantClasses[VariantDefault]
	}
	return twmerge.Merge(
		"toast fixed z-50 flex w-80 items-start gap-3 rounded-lg border p-4 shadow-lg",
		pos, variant, p.Class,
	)
}
