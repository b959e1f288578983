package geometry

import (
	"fmt"

	"github.com/toxichemicals/GO/holy-glyph/internal/gpu"
)

// Buffers are the GPU copies of a mesh. They are created once and shared
// by every shader program, which all read a_position and a_normal with
// three floats per vertex.
type Buffers struct {
	Position gpu.Buffer
	Normal   gpu.Buffer
	Count    int32
}

// Upload centers the mesh positions and copies positions and normals
// into two static buffers.
func Upload(dev gpu.Device, m Mesh) (*Buffers, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	b := &Buffers{
		Position: dev.CreateBuffer(),
		Normal:   dev.CreateBuffer(),
		Count:    int32(m.VertexCount()),
	}
	dev.BufferData(b.Position, Center(m.Positions))
	dev.BufferData(b.Normal, m.Normals)
	if err := dev.Err(); err != nil {
		b.Release(dev)
		return nil, fmt.Errorf("upload mesh buffers: %w", err)
	}
	return b, nil
}

// Release deletes both buffers.
func (b *Buffers) Release(dev gpu.Device) {
	dev.DeleteBuffer(b.Position)
	dev.DeleteBuffer(b.Normal)
}
