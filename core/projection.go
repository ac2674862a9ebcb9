package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// minClipW hides labels for points behind or right at the camera.
const minClipW = 0.1

// ProjectToScreen maps a world position to window pixel coordinates with the
// origin at the top left. ok is false when the point is behind the camera.
func ProjectToScreen(viewProj mgl32.Mat4, pos mgl32.Vec3, width, height int) (x, y float32, ok bool) {
	clip := viewProj.Mul4x1(pos.Vec4(1))
	if clip[3] < minClipW {
		return 0, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]

	halfW := float32(width / 2)
	halfH := float32(height / 2)
	x = halfW*ndcX + ndcX + halfW
	y = -halfH*ndcY + ndcY + halfH
	return x, y, true
}

// FormatCameraLine is the first line of the stats readout.
func FormatCameraLine(pos mgl32.Vec3, pitch, yaw float32) string {
	return fmt.Sprintf("Camera position: x: %.3f, y: %.3f, z: %.3f, pitch: %.3f, yaw: %.3f",
		pos[0], pos[1], pos[2], pitch, yaw)
}

// FormatBodyLine is the stats readout line of one body.
func FormatBodyLine(b BodyState) string {
	return fmt.Sprintf("%s: x: %.3f, y: %.3f, z: %.3f, mass, %.3f, center: %s, ecc: %.3f, fd: %.3f",
		b.Name, b.Position[0], b.Position[1], b.Position[2], b.Mass, b.Center, b.Eccentricity, b.FocalDistance)
}

// hudMargin is the left margin of the stats readout and hudLineHeight the
// distance between its lines, in screen pixels.
const (
	hudMargin     = 20
	hudLineHeight = 20
)

// Label is a line of text anchored at a screen position.
type Label struct {
	X, Y float32
	Text string
}

// StatsLabels lays out the camera line followed by one line per body down
// the left edge of the screen.
func StatsLabels(pos mgl32.Vec3, pitch, yaw float32, bodies []BodyState) []Label {
	labels := make([]Label, 0, len(bodies)+1)
	labels = append(labels, Label{X: hudMargin, Y: 0, Text: FormatCameraLine(pos, pitch, yaw)})
	for i, b := range bodies {
		labels = append(labels, Label{X: hudMargin, Y: float32(i+1) * hudLineHeight, Text: FormatBodyLine(b)})
	}
	return labels
}

// NameLabels places each body's name at its projected position, skipping
// bodies behind the camera.
func NameLabels(viewProj mgl32.Mat4, bodies []BodyState, width, height int) []Label {
	labels := make([]Label, 0, len(bodies))
	for _, b := range bodies {
		x, y, ok := ProjectToScreen(viewProj, b.Position, width, height)
		if !ok {
			continue
		}
		labels = append(labels, Label{X: x, Y: y, Text: b.Name})
	}
	return labels
}
