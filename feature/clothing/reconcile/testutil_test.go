package reconcile

import (
	"bytes"
	"testing"
	"testing/fstest"

	"clothing-importer/core/asm"
	"clothing-importer/core/packfile"

	"github.com/stretchr/testify/require"
)

const (
	riotMale   = "custmesh_-2005229641.str2_pc"
	riotFemale = "custmesh_-2005229641f.str2_pc"
)

const sourceCatalogXML = `<root><Table>
<Customization_Item>
	<Name>police_uniform</Name>
	<DisplayName>CUST_POLICE_UNIFORM</DisplayName>
	<Wear_Options><Wear_Option><Mesh_Information>
		<Male_Mesh_Filename><Filename>cm_police.cmesh_pc</Filename></Male_Mesh_Filename>
	</Mesh_Information></Wear_Option></Wear_Options>
	<Variants><Variant><Mesh_Variant_Info><VariantID>3</VariantID></Mesh_Variant_Info></Variant></Variants>
</Customization_Item>
<Customization_Item>
	<Name>riot_gear</Name>
	<DisplayName>CUST_RIOT_GEAR</DisplayName>
	<Is_DLC>true</Is_DLC>
	<Wear_Options><Wear_Option><Mesh_Information>
		<Male_Mesh_Filename><Filename>cm_riot_gear.cmesh_pc</Filename></Male_Mesh_Filename>
		<Cloth_Sim_Filename><Filename>cm_riot_gear.sim</Filename></Cloth_Sim_Filename>
	</Mesh_Information></Wear_Option></Wear_Options>
	<Variants><Variant><Mesh_Variant_Info><VariantID>0</VariantID></Mesh_Variant_Info></Variant></Variants>
</Customization_Item>
<Customization_Item>
	<Name>ghost_suit</Name>
	<DisplayName>CUST_GHOST</DisplayName>
	<Wear_Options><Wear_Option><Mesh_Information>
		<Male_Mesh_Filename><Filename>cm_ghost.cmesh_pc</Filename></Male_Mesh_Filename>
	</Mesh_Information></Wear_Option></Wear_Options>
	<Variants><Variant><Mesh_Variant_Info><VariantID>0</VariantID></Mesh_Variant_Info></Variant></Variants>
</Customization_Item>
</Table></root>`

func encodeContainers(t *testing.T, containers ...*asm.Container) []byte {
	t.Helper()
	f := asm.New()
	for _, c := range containers {
		f.AddContainer(c)
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func encodeArchive(t *testing.T, entries ...[2]string) []byte {
	t.Helper()
	a := packfile.New(packfile.Version10, packfile.Options{})
	for _, e := range entries {
		require.NoError(t, a.Add(e[0], []byte(e[1])))
	}
	var buf bytes.Buffer
	_, err := a.Save(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// sourceInstall has riot_gear's male archive with metadata, and nothing for
// the other items.
func sourceInstall(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"customization_items.xtbl": {Data: []byte(sourceCatalogXML)},
		"customize_item.asm_pc": {Data: encodeContainers(t, &asm.Container{
			Name:           "custmesh_-2005229641",
			Type:           3,
			PrimitiveCount: 1,
			Primitives:     []*asm.Primitive{{Name: "cm_riot_gear.cmesh_pc", Type: 12}},
		})},
		riotMale: {Data: encodeArchive(t,
			[2]string{"cm_riot_gear.cmesh_pc", "mesh"},
			[2]string{"cm_riot_gear.cmorph_pc", "morph"},
		)},
		"cm_riot_gear.sim_pc": {Data: []byte("sim")},
	}
}
