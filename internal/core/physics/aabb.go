package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// BoxAt builds a box around center with the given half extents.
func BoxAt(center, halfExtents mgl64.Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

func (b AABB) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) Translate(offset mgl64.Vec3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(b.Min[0], o.Min[0]), math.Min(b.Min[1], o.Min[1]), math.Min(b.Min[2], o.Min[2])},
		Max: mgl64.Vec3{math.Max(b.Max[0], o.Max[0]), math.Max(b.Max[1], o.Max[1]), math.Max(b.Max[2], o.Max[2])},
	}
}

func (b AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if b.Max[i] < o.Min[i] || o.Max[i] < b.Min[i] {
			return false
		}
	}
	return true
}

// OverlapsXZ ignores the vertical axis.
func (b AABB) OverlapsXZ(o AABB) bool {
	return b.Max[0] >= o.Min[0] && o.Max[0] >= b.Min[0] &&
		b.Max[2] >= o.Min[2] && o.Max[2] >= b.Min[2]
}

// IntersectRay runs a slab test. dir must be normalized. It returns the entry
// distance and the face normal that was hit. Rays starting inside the box
// report distance 0 and a zero normal.
func (b AABB) IntersectRay(origin, dir mgl64.Vec3, maxDistance float64) (float64, mgl64.Vec3, bool) {
	tMin, tMax := 0.0, maxDistance
	var normal mgl64.Vec3
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1.0 / dir[i]
		t1 := (b.Min[i] - origin[i]) * inv
		t2 := (b.Max[i] - origin[i]) * inv
		n := mgl64.Vec3{}
		n[i] = -1
		if t1 > t2 {
			t1, t2 = t2, t1
			n[i] = 1
		}
		if t1 > tMin {
			tMin = t1
			normal = n
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}
	return tMin, normal, true
}
