// Package fontmetrics measures and rasterizes text with the embedded Go fonts.
//
// Page fonts are matched by family: monospace families (Courier) use Go Mono,
// every other family uses the proportional Go font in the requested style.
package fontmetrics

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/tartampluch/go-mealplan/internal/config"
	"github.com/tartampluch/go-mealplan/internal/layout"
)

// pointsPerInch is the DPI at which one face unit equals one point.
const pointsPerInch = 72.0

var monospaceFamilies = map[string]bool{
	"courier":     true,
	"courier new": true,
	"mono":        true,
	"monospace":   true,
}

type variant struct {
	mono   bool
	bold   bool
	italic bool
}

func (v variant) ttf() []byte {
	switch {
	case v.mono && v.bold && v.italic:
		return gomonobolditalic.TTF
	case v.mono && v.bold:
		return gomonobold.TTF
	case v.mono && v.italic:
		return gomonoitalic.TTF
	case v.mono:
		return gomono.TTF
	case v.bold && v.italic:
		return gobolditalic.TTF
	case v.bold:
		return gobold.TTF
	case v.italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

func variantOf(f layout.Font) variant {
	return variant{
		mono:   monospaceFamilies[strings.ToLower(strings.TrimSpace(f.Family))],
		bold:   f.Bold(),
		italic: f.Italic(),
	}
}

type faceKey struct {
	variant variant
	size    float64
	dpi     float64
}

// Measurer implements layout.TextMeasurer with real glyph advances.
// Faces are parsed lazily and cached. A font.Face is not safe for concurrent
// use, so every access goes through the Measurer's lock.
type Measurer struct {
	mu     sync.Mutex
	parsed map[variant]*opentype.Font
	faces  map[faceKey]font.Face
}

// New returns an empty Measurer.
func New() *Measurer {
	return &Measurer{
		parsed: make(map[variant]*opentype.Font),
		faces:  make(map[faceKey]font.Face),
	}
}

// MeasureWidth returns the advance width of text set in f, in inches.
func (m *Measurer) MeasureWidth(f layout.Font, text string) float64 {
	if text == "" {
		return 0
	}

	var width float64
	err := m.WithFace(f, pointsPerInch, func(face font.Face) error {
		width = float64(font.MeasureString(face, text)) / 64 / pointsPerInch
		return nil
	})
	if err != nil {
		slog.Error(config.ErrFontParse,
			config.LogKeyComponent, config.CompLayout,
			config.LogKeyError, err,
		)
		return layout.MonospaceMeasurer{}.MeasureWidth(f, text)
	}
	return width
}

// WithFace calls fn with the face for f at the given resolution.
// The face must not be retained after fn returns.
func (m *Measurer) WithFace(f layout.Font, dpi float64, fn func(font.Face) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	face, err := m.face(f, dpi)
	if err != nil {
		return err
	}
	return fn(face)
}

func (m *Measurer) face(f layout.Font, dpi float64) (font.Face, error) {
	v := variantOf(f)
	key := faceKey{variant: v, size: f.Size, dpi: dpi}
	if face, ok := m.faces[key]; ok {
		return face, nil
	}

	parsed, ok := m.parsed[v]
	if !ok {
		var err error
		parsed, err = opentype.Parse(v.ttf())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrFontParse, err)
		}
		m.parsed[v] = parsed
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFontParse, err)
	}
	m.faces[key] = face
	return face, nil
}

// Close releases every cached face.
func (m *Measurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for k, face := range m.faces {
		if err := face.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.faces, k)
	}
	return firstErr
}
