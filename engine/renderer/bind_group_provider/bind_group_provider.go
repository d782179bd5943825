package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label prefixed to every GPU object created for this provider.
	label string

	// The following fields are GPU allocated resources populated by the renderer backend and
	// released through Release.

	// bindGroup is the GPU bind group created for this provider, or nil if not initialized.
	bindGroup *wgpu.BindGroup
	// bindGroupLayout is the layout bindGroup was created against.
	bindGroupLayout *wgpu.BindGroupLayout
	// buffers holds the uniform/storage buffers bound in bindGroup, keyed by binding index.
	buffers map[int]*wgpu.Buffer

	// vertexBuffer holds per-vertex mesh data bound at vertex slot 0.
	vertexBuffer *wgpu.Buffer
	// indexBuffer holds the mesh indices.
	indexBuffer *wgpu.Buffer
	// indexCount is the number of indices drawn per instance.
	indexCount int

	// instanceBuffer holds per-instance data bound at vertex slot 1.
	instanceBuffer *wgpu.Buffer
	// instanceCount is the number of instances in instanceBuffer.
	instanceCount int
}

// BindGroupProvider owns the GPU resources one draw needs: a bind group with its buffers,
// plus the mesh and instance vertex buffers.
//
// Usage pattern:
//  1. The backend creates a provider with NewBindGroupProvider
//  2. The backend creates GPU buffers and the bind group and stores them on the provider
//  3. Per frame, BufferWrites targeting the provider update its uniform buffers
//  4. Draw calls read BindGroup, VertexBuffer, IndexBuffer and InstanceBuffer
type BindGroupProvider interface {
	// Release releases every GPU resource held by this provider. Safe to call more than once.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group, or nil if not initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the layout the bind group was created against, or nil.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// VertexBuffer returns the mesh vertex buffer, or nil if not initialized.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh index buffer, or nil if not initialized.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices per instance.
	IndexCount() int

	// InstanceBuffer returns the per-instance vertex buffer, or nil if not initialized.
	InstanceBuffer() *wgpu.Buffer

	// InstanceCount returns the number of instances to draw.
	InstanceCount() int

	// SetBindGroup stores the bind group and the layout it was created against.
	//
	// Parameters:
	//   - bg: the created bind group
	//   - bgl: its layout
	SetBindGroup(bg *wgpu.BindGroup, bgl *wgpu.BindGroupLayout)

	// SetMesh stores the mesh vertex and index buffers, releasing any it replaces.
	//
	// Parameters:
	//   - vertices: the vertex buffer
	//   - indices: the index buffer
	//   - indexCount: the number of indices
	SetMesh(vertices, indices *wgpu.Buffer, indexCount int)

	// SetInstances stores the instance buffer, releasing any it replaces.
	//
	// Parameters:
	//   - buf: the instance buffer
	//   - count: the number of instances
	SetInstances(buf *wgpu.Buffer, count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new, empty BindGroupProvider.
//
// Parameters:
//   - label: debug label for GPU objects
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) InstanceBuffer() *wgpu.Buffer {
	return p.instanceBuffer
}

func (p *bindGroupProvider) InstanceCount() int {
	return p.instanceCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup, bgl *wgpu.BindGroupLayout) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	if p.bindGroupLayout != nil && p.bindGroupLayout != bgl {
		p.bindGroupLayout.Release()
	}
	p.bindGroup = bg
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetMesh(vertices, indices *wgpu.Buffer, indexCount int) {
	if p.vertexBuffer != nil && p.vertexBuffer != vertices {
		p.vertexBuffer.Release()
	}
	if p.indexBuffer != nil && p.indexBuffer != indices {
		p.indexBuffer.Release()
	}
	p.vertexBuffer = vertices
	p.indexBuffer = indices
	p.indexCount = indexCount
}

func (p *bindGroupProvider) SetInstances(buf *wgpu.Buffer, count int) {
	if p.instanceBuffer != nil && p.instanceBuffer != buf {
		p.instanceBuffer.Release()
	}
	p.instanceBuffer = buf
	p.instanceCount = count
}

func (p *bindGroupProvider) Release() {
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.indexCount = 0
	if p.instanceBuffer != nil {
		p.instanceBuffer.Release()
		p.instanceBuffer = nil
	}
	p.instanceCount = 0
}
