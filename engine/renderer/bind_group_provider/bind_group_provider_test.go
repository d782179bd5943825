package bind_group_provider

import "testing"

func TestBindGroupProvider_EmptyRelease(t *testing.T) {
	p := NewBindGroupProvider("Camera")
	if p.Label() != "Camera" {
		t.Fatalf("expected label Camera, got %q", p.Label())
	}
	if p.BindGroup() != nil || p.Buffer(0) != nil || p.VertexBuffer() != nil || p.InstanceBuffer() != nil {
		t.Fatalf("new provider must hold no GPU resources")
	}

	p.SetMesh(nil, nil, 36)
	p.SetInstances(nil, 100)
	if p.IndexCount() != 36 || p.InstanceCount() != 100 {
		t.Fatalf("expected counts 36/100, got %d/%d", p.IndexCount(), p.InstanceCount())
	}

	p.Release()
	p.Release()
	if p.IndexCount() != 0 || p.InstanceCount() != 0 {
		t.Fatalf("release must reset counts")
	}
}
