package vmath

// Axis3 gates per-axis behavior, one flag per world axis
type Axis3 struct {
	X, Y, Z bool
}

// AllAxes enables every axis
var AllAxes = Axis3{X: true, Y: true, Z: true}

// Toggle flips the flag at index 0=X, 1=Y, 2=Z; other indices are ignored
func (a Axis3) Toggle(axis int) Axis3 {
	switch axis {
	case 0:
		a.X = !a.X
	case 1:
		a.Y = !a.Y
	case 2:
		a.Z = !a.Z
	}
	return a
}

// Array returns flags in x, y, z order
func (a Axis3) Array() [3]bool {
	return [3]bool{a.X, a.Y, a.Z}
}

// Axis3FromArray builds a mask from x, y, z ordered flags
func Axis3FromArray(a [3]bool) Axis3 {
	return Axis3{X: a[0], Y: a[1], Z: a[2]}
}
