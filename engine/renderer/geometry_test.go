package renderer

import (
	"math"
	"testing"
	"time"
	"unsafe"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/engine/simulation"
	"github.com/go-gl/mathgl/mgl32"
)

func TestCubeMesh_TrianglesFaceOutward(t *testing.T) {
	vertices, indices := CubeMesh()
	if len(vertices) != 24 || len(indices) != 36 {
		t.Fatalf("expected 24 vertices and 36 indices, got %d and %d", len(vertices), len(indices))
	}

	for i := 0; i < len(indices); i += 3 {
		a := mgl32.Vec3(vertices[indices[i]].Position)
		b := mgl32.Vec3(vertices[indices[i+1]].Position)
		c := mgl32.Vec3(vertices[indices[i+2]].Position)
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if normal.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d winds inward", i/3)
		}
	}

	for _, v := range vertices {
		for _, p := range v.Position {
			if p != 0.5 && p != -0.5 {
				t.Fatalf("vertex %v is not on the unit cube", v.Position)
			}
		}
	}
}

func TestGPUTypes_Layout(t *testing.T) {
	var cam GPUCameraUniform
	if cam.Size() != 80 {
		t.Fatalf("camera uniform must be 80 bytes, got %d", cam.Size())
	}
	if s := unsafe.Sizeof(GPUVertex{}); s != 24 {
		t.Fatalf("vertex must be 24 bytes, got %d", s)
	}
	if s := unsafe.Sizeof(GPUInstance{}); s != 64 {
		t.Fatalf("instance must be 64 bytes, got %d", s)
	}
}

func TestGPUCameraUniform_MarshalCarriesPosition(t *testing.T) {
	cam := simulation.DefaultCamera(16.0 / 9.0)
	u := NewGPUCameraUniform(cam)
	buf := u.Marshal()

	bits := uint32(buf[68]) | uint32(buf[69])<<8 | uint32(buf[70])<<16 | uint32(buf[71])<<24
	if got := math.Float32frombits(bits); got != cam.Position.Y() {
		t.Fatalf("expected camera y %v at offset 68, got %v", cam.Position.Y(), got)
	}
}

func TestInstancePosition(t *testing.T) {
	if p := InstancePosition(0, 0, 10, 3); p != (mgl32.Vec3{5, 0, 5}) {
		t.Fatalf("unexpected first cell %v", p)
	}
	if p := InstancePosition(9, 2, 10, 3); p != (mgl32.Vec3{-22, 0, -1}) {
		t.Fatalf("unexpected cell (9, 2) %v", p)
	}
}

func TestInstanceRotation_OriginIsIdentity(t *testing.T) {
	q := InstanceRotation(4, mgl32.Vec3{})
	if !q.ApproxEqual(mgl32.QuatIdent()) {
		t.Fatalf("instance at origin must not rotate, got %v", q)
	}
}

func TestBuildInstanceGrid(t *testing.T) {
	pool := worker.NewDynamicWorkerPool(3, 16, time.Second)
	const size = 10
	instances := BuildInstanceGrid(pool, size, 3)
	if len(instances) != size*size {
		t.Fatalf("expected %d instances, got %d", size*size, len(instances))
	}

	for z := range size {
		for x := range size {
			m := mgl32.Mat4(instances[z*size+x].Model)
			want := InstancePosition(x, z, size, 3)
			if got := m.Col(3).Vec3(); !got.ApproxEqual(want) {
				t.Fatalf("instance (%d, %d) at %v, want %v", x, z, got, want)
			}
			// Rotation must not scale.
			if l := m.Col(0).Vec3().Len(); math.Abs(float64(l-1)) > 1e-5 {
				t.Fatalf("instance (%d, %d) is scaled by %v", x, z, l)
			}
		}
	}

	if BuildInstanceGrid(pool, 0, 3) != nil {
		t.Fatalf("empty grid expected for size 0")
	}
}
