package scene

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Render a table with the scene contents.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Details"})

	for _, mesh := range sc.Meshes {
		table.Append([]string{"Mesh", mesh.Name, fmt.Sprintf("%d faces, material %q", len(mesh.Faces), mesh.Material.Name)})
	}
	table.Append([]string{" ", " ", " "})
	for index, light := range sc.Lights {
		table.Append([]string{"Light", fmt.Sprintf("#%d %s", index, light.Kind), fmt.Sprintf("intensity %3.3f", light.Intensity)})
	}
	table.Append([]string{" ", " ", " "})
	bbox := sc.BBox()
	table.Append([]string{"Bounds", "min", fmt.Sprintf("(%3.3f, %3.3f, %3.3f)", bbox.Min[0], bbox.Min[1], bbox.Min[2])})
	table.Append([]string{"", "max", fmt.Sprintf("(%3.3f, %3.3f, %3.3f)", bbox.Max[0], bbox.Max[1], bbox.Max[2])})
	table.SetFooter([]string{"Total", fmt.Sprintf("%d meshes", len(sc.Meshes)), fmt.Sprintf("%d faces, %d lights", sc.FaceCount(), len(sc.Lights))})

	table.Render()
	return buf.String()
}
