package asm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *File {
	f := New()
	f.AddContainer(&Container{
		Name:                    "custmesh_-2005229641",
		Type:                    2,
		Flags:                   0x0201,
		PrimitiveCount:          2,
		BaseOffset:              2048,
		CompressionType:         1,
		StubParentName:          "customize_item",
		AuxData:                 []byte{1, 2, 3, 4},
		TotalCompressedReadSize: 9000,
		Primitives: []*Primitive{
			{Name: "cm_riot_gear.cmesh_pc", Type: 12, Allocator: 3, Flags: 1, ExtensionIndex: 2, AllocationGroup: 7, CPUSize: 100, GPUSize: 200},
			{Name: "cm_riot_gear.cmorph_pc", Type: 14, CPUSize: 64},
		},
	})
	f.AddContainer(&Container{Name: "custmesh_17f", Type: 2})
	return f
}

func TestRoundTrip(t *testing.T) {
	src := sampleTable()

	var buf bytes.Buffer
	n, err := src.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, got.Containers, 2)

	assert.Equal(t, src.Containers[0], got.Containers[0])
	assert.Equal(t, "custmesh_17f", got.Containers[1].Name)
	assert.Empty(t, got.Containers[1].Primitives)
}

func TestFindContainer(t *testing.T) {
	f := sampleTable()

	tests := []struct {
		name    string
		archive string
		found   bool
	}{
		{"WithExtension", "custmesh_-2005229641.str2_pc", true},
		{"WithoutExtension", "custmesh_-2005229641", true},
		{"Female", "custmesh_17f.str2_pc", true},
		{"CaseMismatch", "CUSTMESH_17F.str2_pc", false},
		{"Missing", "custmesh_1.str2_pc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := f.FindContainer(tt.archive)
			assert.Equal(t, tt.found, c != nil)
		})
	}
}

func TestWriteTo_PrimitiveCountMismatch(t *testing.T) {
	f := New()
	f.AddContainer(&Container{Name: "broken", PrimitiveCount: 3, Primitives: []*Primitive{{Name: "a"}}})

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	assert.ErrorIs(t, err, ErrPrimitiveCount)
	assert.Zero(t, buf.Len())
}

func TestRead_Errors(t *testing.T) {
	var good bytes.Buffer
	_, err := sampleTable().WriteTo(&good)
	require.NoError(t, err)

	t.Run("BadMagic", func(t *testing.T) {
		data := append([]byte{0, 0, 0, 0}, good.Bytes()[4:]...)
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("BadVersion", func(t *testing.T) {
		data := bytes.Clone(good.Bytes())
		data[4] = 9
		_, err := Read(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("Truncated", func(t *testing.T) {
		data := good.Bytes()[:good.Len()-3]
		_, err := Read(bytes.NewReader(data))
		assert.Error(t, err)
	})
}
