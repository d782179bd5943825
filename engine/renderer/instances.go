package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
)

// instanceRotationStep is the extra rotation each column of the grid receives, in degrees.
const instanceRotationStep = 9

// InstancePosition returns the world position of grid cell (x, z): cells step by -spacing along
// both axes from a corner displaced by half the grid size.
//
// Parameters:
//   - x, z: the cell coordinates
//   - size: the number of cells per row
//   - spacing: the distance between neighbouring cells
//
// Returns:
//   - mgl32.Vec3: the cell position
func InstancePosition(x, z, size int, spacing float32) mgl32.Vec3 {
	displacement := mgl32.Vec3{float32(size) * 0.5, 0, float32(size) * 0.5}
	return mgl32.Vec3{float32(x), 0, float32(z)}.Mul(-spacing).Add(displacement)
}

// InstanceRotation returns the orientation of the instance in column x at position p. An
// instance at the origin has no axis to rotate about and keeps the identity.
func InstanceRotation(x int, p mgl32.Vec3) mgl32.Quat {
	if p.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(mgl32.DegToRad(float32(instanceRotationStep*x)), p.Normalize())
}

// BuildInstanceGrid computes the model matrices of a size×size instance grid. Rows are
// packed in parallel on the pool, one task per row, and the call returns once every row is done.
// Instances are ordered row by row (z outer, x inner).
//
// Parameters:
//   - pool: the worker pool that packs the rows
//   - size: the number of instances per row
//   - spacing: the distance between neighbouring instances
//
// Returns:
//   - []GPUInstance: size*size instances, or nil when size is not positive
func BuildInstanceGrid(pool worker.DynamicWorkerPool, size int, spacing float32) []GPUInstance {
	if size <= 0 {
		return nil
	}
	instances := make([]GPUInstance, size*size)

	var wg sync.WaitGroup
	for z := range size {
		wg.Add(1)
		row := instances[z*size : (z+1)*size]
		pool.SubmitTask(worker.Task{
			ID: z,
			Do: func() (any, error) {
				defer wg.Done()
				for x := range size {
					p := InstancePosition(x, z, size, spacing)
					model := mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(InstanceRotation(x, p).Mat4())
					row[x] = GPUInstance{Model: model}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return instances
}
