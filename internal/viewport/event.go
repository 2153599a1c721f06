package viewport

import "math"

// Offset is a 2D position or displacement in screen pixels.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns o translated by d.
func (o Offset) Add(d Offset) Offset {
	return Offset{X: o.X + d.X, Y: o.Y + d.Y}
}

// Sub returns the displacement from d to o.
func (o Offset) Sub(d Offset) Offset {
	return Offset{X: o.X - d.X, Y: o.Y - d.Y}
}

// Distance returns the length of o treated as a vector.
func (o Offset) Distance() float64 {
	return math.Hypot(o.X, o.Y)
}

// IsZero reports whether o is the origin.
func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

// Pointer is one contact within a frame, carrying both its current and
// previous sample.
type Pointer struct {
	ID              int64  `json:"id"`
	Position        Offset `json:"position"`
	Previous        Offset `json:"previous"`
	Pressed         bool   `json:"pressed"`
	PreviousPressed bool   `json:"previous_pressed"`
}

// Event is one frame of pointer input.
type Event struct {
	Pointers []Pointer `json:"pointers"`
}

// Count is the number of pointers reported in the frame, released ones included.
func (e Event) Count() int {
	return len(e.Pointers)
}

// AnyPressed reports whether any pointer is still down.
func (e Event) AnyPressed() bool {
	for _, p := range e.Pointers {
		if p.Pressed {
			return true
		}
	}
	return false
}

// Zoom is the ratio of the average pointer distance from the centroid in
// this frame to the same measure in the previous frame. Frames with fewer
// than two tracked pointers report 1.
func (e Event) Zoom() float64 {
	tracked := e.tracked()
	if len(tracked) < 2 {
		return 1
	}

	current := span(tracked, func(p Pointer) Offset { return p.Position })
	previous := span(tracked, func(p Pointer) Offset { return p.Previous })
	if current == 0 || previous == 0 {
		return 1
	}
	return current / previous
}

// Pan is the centroid displacement between the previous and current frame.
func (e Event) Pan() Offset {
	tracked := e.tracked()
	if len(tracked) == 0 {
		return Offset{}
	}

	current := centroid(tracked, func(p Pointer) Offset { return p.Position })
	previous := centroid(tracked, func(p Pointer) Offset { return p.Previous })
	return current.Sub(previous)
}

// Centroid is the mean current position of the tracked pointers.
func (e Event) Centroid() Offset {
	return centroid(e.tracked(), func(p Pointer) Offset { return p.Position })
}

// tracked returns pointers pressed in both this and the previous frame.
func (e Event) tracked() []Pointer {
	var tracked []Pointer
	for _, p := range e.Pointers {
		if p.Pressed && p.PreviousPressed {
			tracked = append(tracked, p)
		}
	}
	return tracked
}

func centroid(pointers []Pointer, at func(Pointer) Offset) Offset {
	if len(pointers) == 0 {
		return Offset{}
	}

	var sum Offset
	for _, p := range pointers {
		sum = sum.Add(at(p))
	}
	n := float64(len(pointers))
	return Offset{X: sum.X / n, Y: sum.Y / n}
}

func span(pointers []Pointer, at func(Pointer) Offset) float64 {
	c := centroid(pointers, at)

	var total float64
	for _, p := range pointers {
		total += at(p).Sub(c).Distance()
	}
	return total / float64(len(pointers))
}
