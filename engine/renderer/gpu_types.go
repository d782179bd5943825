package renderer

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-view/engine/simulation"
)

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the CameraUniform struct in assets/cube.wgsl.
// Size: 80 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space camera position (vec3<f32>)
	_pad           float32     // offset 76: padding to 80 bytes
}

// NewGPUCameraUniform packs a simulated camera for upload.
//
// Parameters:
//   - cam: the camera to pack
//
// Returns:
//   - GPUCameraUniform: the uniform data
func NewGPUCameraUniform(cam simulation.Camera) GPUCameraUniform {
	return GPUCameraUniform{
		ViewProj:       cam.ViewProjection(),
		CameraPosition: cam.Position,
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0) // _pad
	return buf
}

// GPUVertex is one cube vertex: position at location 0, colour at location 1.
type GPUVertex struct {
	Position [3]float32
	Color    [3]float32
}

// GPUInstance is one per-instance model matrix, read by the vertex stage as four vec4 columns
// at locations 5 through 8.
type GPUInstance struct {
	Model [16]float32
}
