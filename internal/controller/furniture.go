package controller

import (
	"fmt"
	"strconv"
)

// FurnitureContent selects what a header or footer shows.
type FurnitureContent int

const (
	FurnitureNone FurnitureContent = iota
	FurnitureTitle
	FurniturePageNumber
)

func (f FurnitureContent) String() string {
	switch f {
	case FurnitureNone:
		return "none"
	case FurnitureTitle:
		return "title"
	case FurniturePageNumber:
		return "pageNumber"
	}
	return "unknown"
}

// ParseFurnitureContent maps a config string to a FurnitureContent.
func ParseFurnitureContent(s string) (FurnitureContent, error) {
	switch s {
	case "", "none":
		return FurnitureNone, nil
	case "title":
		return FurnitureTitle, nil
	case "pageNumber":
		return FurniturePageNumber, nil
	}
	return FurnitureNone, fmt.Errorf("controller: unknown furniture content %q", s)
}

// Align positions a furniture line along the horizontal edge. Vertical
// pages still run their furniture horizontally.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "unknown"
}

// ParseAlign maps a config string to an Align.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("controller: unknown alignment %q", s)
}

// PageNumberFormat selects how page numbers print.
type PageNumberFormat int

const (
	// NumberCurrent prints "5".
	NumberCurrent PageNumberFormat = iota
	// NumberCurrentTotal prints "5 / 12".
	NumberCurrentTotal
)

func (f PageNumberFormat) String() string {
	switch f {
	case NumberCurrent:
		return "current"
	case NumberCurrentTotal:
		return "currentTotal"
	}
	return "unknown"
}

// ParsePageNumberFormat maps a config string to a PageNumberFormat.
func ParsePageNumberFormat(s string) (PageNumberFormat, error) {
	switch s {
	case "", "current":
		return NumberCurrent, nil
	case "currentTotal":
		return NumberCurrentTotal, nil
	}
	return NumberCurrent, fmt.Errorf("controller: unknown page number format %q", s)
}

// FurnitureLine is one resolved header or footer line.
type FurnitureLine struct {
	Text  string
	Align Align
}

// Furniture resolves the header and footer for page i from the
// configured content kinds. Page numbers are one-based.
func (c *Controller) Furniture(i int) (header, footer FurnitureLine) {
	header = c.furnitureLine(c.cfg.HeaderContent, c.cfg.HeaderAlign, i)
	footer = c.furnitureLine(c.cfg.FooterContent, c.cfg.FooterAlign, i)
	return header, footer
}

func (c *Controller) furnitureLine(kind FurnitureContent, align Align, i int) FurnitureLine {
	line := FurnitureLine{Align: align}
	switch kind {
	case FurnitureTitle:
		line.Text = c.title
	case FurniturePageNumber:
		line.Text = c.pageNumber(i)
	}
	return line
}

func (c *Controller) pageNumber(i int) string {
	if c.cfg.NumberFormat == NumberCurrentTotal {
		return fmt.Sprintf("%d / %d", i+1, len(c.pages))
	}
	return strconv.Itoa(i + 1)
}
