package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinmark/pinmark-backend/internal/apperr"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		mark Mark
		ok   bool
	}{
		{"point", Mark{Shape: ShapePoint, X: 0.5, Y: 0.5}, true},
		{"point on edge", Mark{Shape: ShapePoint, X: 1, Y: 0}, true},
		{"rect", Mark{Shape: ShapeRect, X: 0.1, Y: 0.1, Width: 0.5, Height: 0.9}, true},
		{"circle overflows", Mark{Shape: ShapeCircle, X: 0.8, Y: 0.1, Width: 0.3, Height: 0.1}, false},
		{"rect without size", Mark{Shape: ShapeRect, X: 0.1, Y: 0.1}, false},
		{"negative x", Mark{Shape: ShapePoint, X: -0.1, Y: 0.1}, false},
		{"unknown shape", Mark{Shape: "arrow", X: 0.1, Y: 0.1}, false},
		{"bad color", Mark{Shape: ShapePoint, X: 0.1, Y: 0.1, Color: "red"}, false},
		{"long label", Mark{Shape: ShapePoint, X: 0.1, Y: 0.1, Label: string(make([]byte, MaxLabelLen+1))}, false},
		{"multibyte label at limit", Mark{Shape: ShapePoint, X: 0.1, Y: 0.1, Label: strings.Repeat("é", MaxLabelLen)}, true},
		{"multibyte label over limit", Mark{Shape: ShapePoint, X: 0.1, Y: 0.1, Label: strings.Repeat("日", MaxLabelLen+1)}, false},
		{"invalid utf-8 label", Mark{Shape: ShapePoint, X: 0.1, Y: 0.1, Label: "a\xffb"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.mark
			err := Normalize(&m)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperr.ErrInvalidInput)
			}
		})
	}
}

func TestNormalize_Defaults(t *testing.T) {
	m := Mark{Shape: ShapePoint, X: 0.2, Y: 0.3, Width: 0.4, Height: 0.4, Color: "#00ff00", Label: "  logo  "}
	require.NoError(t, Normalize(&m))
	assert.Equal(t, "#00FF00", m.Color)
	assert.Equal(t, "logo", m.Label)
	assert.Zero(t, m.Width)
	assert.Zero(t, m.Height)

	m = Mark{Shape: ShapePoint, X: 0.2, Y: 0.3}
	require.NoError(t, Normalize(&m))
	assert.Equal(t, DefaultColor, m.Color)
}
