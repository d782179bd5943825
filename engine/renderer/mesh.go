package renderer

import "github.com/go-gl/mathgl/mgl32"

// cubeFace describes one face of the unit cube by its outward normal and two in-plane axes
// with u × v = normal, so corners listed counter-clockwise in (u, v) wind front-facing.
type cubeFace struct {
	normal mgl32.Vec3
	u, v   mgl32.Vec3
	color  [3]float32
}

var cubeFaces = [6]cubeFace{
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}, color: [3]float32{0.90, 0.30, 0.25}},
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}, color: [3]float32{0.25, 0.75, 0.35}},
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}, color: [3]float32{0.30, 0.45, 0.90}},
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}, color: [3]float32{0.95, 0.80, 0.25}},
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}, color: [3]float32{0.80, 0.35, 0.85}},
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}, color: [3]float32{0.30, 0.85, 0.85}},
}

// CubeMesh builds a unit cube centred on the origin with one flat colour per face.
// Vertices are not shared between faces so each face keeps its own colour.
//
// Returns:
//   - []GPUVertex: 24 vertices, four per face
//   - []uint32: 36 indices, two counter-clockwise triangles per face
func CubeMesh() ([]GPUVertex, []uint32) {
	vertices := make([]GPUVertex, 0, 24)
	indices := make([]uint32, 0, 36)

	corners := [4][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		center := f.normal.Mul(0.5)
		for _, c := range corners {
			p := center.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			vertices = append(vertices, GPUVertex{Position: p, Color: f.color})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}
