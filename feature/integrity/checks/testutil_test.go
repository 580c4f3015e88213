package checks

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"clothing-importer/core/asm"
	"clothing-importer/core/packfile"
	"clothing-importer/core/strtable"
	"clothing-importer/feature/clothing"

	"github.com/stretchr/testify/require"
)

const archiveName = "custmesh_-2005229641.str2_pc"

// writeOutput lays out a valid srtt output root with one cloned archive and
// returns its container so tests can break it.
func writeOutput(t *testing.T, root string) *asm.Container {
	t.Helper()
	require.NoError(t, os.MkdirAll(root, 0o755))

	write := func(name string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), data, 0o644))
	}

	write(clothing.CatalogFilename, []byte(`<root><Table><Customization_Item><Name>riot_gear</Name></Customization_Item></Table></root>`))

	a := packfile.New(packfile.Version10, packfile.Options{Compressed: true, Condensed: true})
	require.NoError(t, a.Add("cm_riot_gear.cmesh_pc", []byte("mesh")))
	require.NoError(t, a.Add("cm_riot_gear.sim_pc", []byte("sim")))
	var buf bytes.Buffer
	layout, err := a.Save(&buf)
	require.NoError(t, err)
	write(archiveName, buf.Bytes())

	c := &asm.Container{
		Name:            "custmesh_-2005229641",
		Type:            3,
		CompressionType: 9,
		PrimitiveCount:  2,
		Primitives: []*asm.Primitive{
			{Name: "cm_riot_gear.cmesh_pc", Type: 12},
			{Name: "cm_riot_gear.sim_pc", Type: 47},
		},
	}
	layout.Update(c)
	writeContainers(t, root, c)

	for _, lang := range []string{"us", "de"} {
		f, err := strtable.New(32, lang)
		require.NoError(t, err)
		f.Add(1, "SRTT: Riot Gear")
		buf.Reset()
		_, err = f.WriteTo(&buf)
		require.NoError(t, err)
		write("srtt_clothing_"+lang+".le_strings", buf.Bytes())
	}
	return c
}

func writeContainers(t *testing.T, root string, containers ...*asm.Container) {
	t.Helper()
	table := asm.New()
	for _, c := range containers {
		table.AddContainer(c)
	}
	var buf bytes.Buffer
	_, err := table.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, clothing.ContainersFilename), buf.Bytes(), 0o644))
}
