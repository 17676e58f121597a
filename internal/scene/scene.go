// Package scene holds draw lists produced by the renderers and the surface
// interface they are replayed onto.
package scene

import (
	"image/color"
	"sort"

	"sales-analytics/pkg/geometry"
)

// Surface accepts primitive drawing commands. Coordinates are world
// coordinates; the surface maps them through the last applied transform.
type Surface interface {
	ApplyTransform(t geometry.AffineTransform)
	DrawImage(path string, z int)
	DrawCircle(bounds geometry.Rect, fill color.Color)
	DrawText(text string, anchor geometry.Point2D)
	DrawPolygon(points []geometry.Point2D, stroke, fill color.Color)
}

// TableSink displays a table model.
type TableSink interface {
	SetTableModel(headers []string, rows [][]string)
}

// Kind identifies a draw command.
type Kind int

const (
	KindImage Kind = iota
	KindCircle
	KindText
	KindPolygon
)

// Command is one primitive in a draw list. Only the fields relevant to
// Kind are set.
type Command struct {
	Kind   Kind
	Z      int
	Path   string             // KindImage
	Bounds geometry.Rect      // KindCircle
	Text   string             // KindText
	Anchor geometry.Point2D   // KindText
	Points []geometry.Point2D // KindPolygon
	Stroke color.Color        // KindPolygon
	Fill   color.Color        // KindCircle, KindPolygon
}

// Scene is an immutable-after-build draw list.
type Scene struct {
	Size     geometry.Size
	commands []Command
}

// New creates an empty scene covering the given world size.
func New(size geometry.Size) *Scene {
	return &Scene{Size: size}
}

// AddImage adds a pixmap loaded from path.
func (s *Scene) AddImage(path string, z int) {
	s.commands = append(s.commands, Command{Kind: KindImage, Z: z, Path: path})
}

// AddCircle adds a filled ellipse inscribed in bounds.
func (s *Scene) AddCircle(bounds geometry.Rect, fill color.Color) {
	s.commands = append(s.commands, Command{Kind: KindCircle, Bounds: bounds, Fill: fill})
}

// AddText adds a label whose top-left corner sits at anchor.
func (s *Scene) AddText(text string, anchor geometry.Point2D) {
	s.commands = append(s.commands, Command{Kind: KindText, Text: text, Anchor: anchor})
}

// AddPolygon adds a closed polygon.
func (s *Scene) AddPolygon(points []geometry.Point2D, stroke, fill color.Color) {
	pts := make([]geometry.Point2D, len(points))
	copy(pts, points)
	s.commands = append(s.commands, Command{Kind: KindPolygon, Points: pts, Stroke: stroke, Fill: fill})
}

// Commands returns the draw list in replay order.
func (s *Scene) Commands() []Command {
	out := make([]Command, len(s.commands))
	copy(out, s.commands)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Z < out[j].Z })
	return out
}

// Len returns the number of commands.
func (s *Scene) Len() int {
	return len(s.commands)
}

// Replay draws the scene onto surf under transform t.
func (s *Scene) Replay(surf Surface, t geometry.AffineTransform) {
	surf.ApplyTransform(t)
	for _, c := range s.Commands() {
		switch c.Kind {
		case KindImage:
			surf.DrawImage(c.Path, c.Z)
		case KindCircle:
			surf.DrawCircle(c.Bounds, c.Fill)
		case KindText:
			surf.DrawText(c.Text, c.Anchor)
		case KindPolygon:
			surf.DrawPolygon(c.Points, c.Stroke, c.Fill)
		}
	}
}
