package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

type Shape string

const (
	ShapePoint  Shape = "point"
	ShapeRect   Shape = "rect"
	ShapeCircle Shape = "circle"
)

const (
	DefaultColor = "#FF3B30"
	MaxLabelLen  = 200
)

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Mark is an annotation on an image. Coordinates are fractions of the image size.
type Mark struct {
	ID        string    `json:"id"`
	ImageID   string    `json:"image_id"`
	UserID    string    `json:"user_id"`
	Shape     Shape     `json:"shape"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	Color     string    `json:"color"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Update struct {
	Shape  *Shape
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Color  *string
	Label  *string
}

// Apply copies the set fields of u onto m.
func (u Update) Apply(m *Mark) {
	if u.Shape != nil {
		m.Shape = *u.Shape
	}
	if u.X != nil {
		m.X = *u.X
	}
	if u.Y != nil {
		m.Y = *u.Y
	}
	if u.Width != nil {
		m.Width = *u.Width
	}
	if u.Height != nil {
		m.Height = *u.Height
	}
	if u.Color != nil {
		m.Color = *u.Color
	}
	if u.Label != nil {
		m.Label = *u.Label
	}
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// Normalize fills defaults and checks the geometry. Points carry no size.
func Normalize(m *Mark) error {
	m.Color = strings.TrimSpace(m.Color)
	if m.Color == "" {
		m.Color = DefaultColor
	}
	if !colorRe.MatchString(m.Color) {
		return fmt.Errorf("color must be #RRGGBB: %w", apperr.ErrInvalidInput)
	}
	m.Color = strings.ToUpper(m.Color)

	m.Label = strings.TrimSpace(m.Label)
	if !utf8.ValidString(m.Label) {
		return fmt.Errorf("label must be valid UTF-8: %w", apperr.ErrInvalidInput)
	}
	if utf8.RuneCountInString(m.Label) > MaxLabelLen {
		return fmt.Errorf("label is longer than %d characters: %w", MaxLabelLen, apperr.ErrInvalidInput)
	}

	if !inUnit(m.X) || !inUnit(m.Y) {
		return fmt.Errorf("x and y must be within [0, 1]: %w", apperr.ErrInvalidInput)
	}

	switch m.Shape {
	case ShapePoint:
		m.Width, m.Height = 0, 0
	case ShapeRect, ShapeCircle:
		if m.Width <= 0 || m.Height <= 0 {
			return fmt.Errorf("%s needs a positive width and height: %w", m.Shape, apperr.ErrInvalidInput)
		}
		if m.X+m.Width > 1 || m.Y+m.Height > 1 {
			return fmt.Errorf("%s extends past the image: %w", m.Shape, apperr.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("unknown shape %q: %w", m.Shape, apperr.ErrInvalidInput)
	}
	return nil
}
