// Package models wraps customization item tables.
//
// Items are kept as their etree elements so that fields this package does not
// know about survive the migration untouched. Accessors read the few fields the
// migration needs:
//
//	<Customization_Item>
//	  <Name>riot_gear</Name>
//	  <DisplayName>CUST_RIOT_GEAR</DisplayName>
//	  <Is_DLC>True</Is_DLC>
//	  <Wear_Options>
//	    <Wear_Option>
//	      <Mesh_Information>
//	        <Male_Mesh_Filename><Filename>riot_gear.cmeshx_pc</Filename></Male_Mesh_Filename>
//	        <Female_Mesh_Filename><Filename>riot_gear_f.cmeshx_pc</Filename></Female_Mesh_Filename>
//	        <Cloth_Sim_Filename><Filename>riot_gear.sim</Filename></Cloth_Sim_Filename>
//	      </Mesh_Information>
//	    </Wear_Option>
//	  </Wear_Options>
//	  <Variants>
//	    <Variant><Mesh_Variant_Info><VariantID>0</VariantID></Mesh_Variant_Info></Variant>
//	  </Variants>
//	</Customization_Item>
//
// A missing required field is reported as ErrMalformedItem.
package models
