package alg

import (
	"math"
)

// Vector2 平面二维向量
type Vector2 struct {
	X float32
	Y float32
}

// Vector3 空间三维向量
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

func NewVector3(x float32, y float32, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vector3) Mulf(f float32) Vector3 {
	return Vector3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Midpoint 两点的中点
func (v Vector3) Midpoint(o Vector3) Vector3 {
	return Vector3{X: (v.X + o.X) * 0.5, Y: (v.Y + o.Y) * 0.5, Z: (v.Z + o.Z) * 0.5}
}

func (v Vector3) Distance(o Vector3) float32 {
	return v.Sub(o).Length()
}

func (v Vector3) DistanceSquared(o Vector3) float32 {
	d := v.Sub(o)
	return d.X*d.X + d.Y*d.Y + d.Z*d.Z
}

// Distance2D 忽略垂直分量的平面距离
func (v Vector3) Distance2D(o Vector3) float32 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return float32(math.Sqrt(float64(dx*dx + dz*dz)))
}

func (v Vector3) DistanceSquared2D(o Vector3) float32 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return dx*dx + dz*dz
}

// DistanceToSegment 点到线段ab的距离
func (v Vector3) DistanceToSegment(a Vector3, b Vector3) float32 {
	ab := b.Sub(a)
	abLenSq := ab.Dot(ab)
	if abLenSq == 0.0 {
		return v.Distance(a)
	}
	t := v.Sub(a).Dot(ab) / abLenSq
	if t < 0.0 {
		t = 0.0
	} else if t > 1.0 {
		t = 1.0
	}
	return v.Distance(a.Add(ab.Mulf(t)))
}
