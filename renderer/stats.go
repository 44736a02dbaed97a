package renderer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/j-cube/hdospray/backend"
	"github.com/olekukonko/tablewriter"
)

// Build a tabular summary of the render state: registered prims, the model
// version and, when the device supports it, live renderer objects per kind.
func (p *Param) Stats() string {
	p.mu.RLock()
	numCurves, numMaterials, numInstancers := len(p.curves), len(p.materials), len(p.instancers)
	p.mu.RUnlock()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Category", "Item", "Count"})
	table.Append([]string{"Prims", "---", " "})
	table.Append([]string{"", "Basis curves", fmt.Sprint(numCurves)})
	table.Append([]string{"", "Materials", fmt.Sprint(numMaterials)})
	table.Append([]string{"", "Instancers", fmt.Sprint(numInstancers)})
	table.Append([]string{" ", " ", " "})

	total := 0
	if inspector, ok := p.device.(backend.Inspector); ok {
		counts := inspector.LiveCounts()
		kinds := make([]string, 0, len(counts))
		for kind := range counts {
			kinds = append(kinds, string(kind))
		}
		sort.Strings(kinds)

		table.Append([]string{"Renderer objects", "---", " "})
		for _, kind := range kinds {
			n := counts[backend.Kind(kind)]
			total += n
			table.Append([]string{"", kind, fmt.Sprint(n)})
		}
	}
	table.SetFooter([]string{"Model version", fmt.Sprint(p.ModelVersion()), fmt.Sprintf("%d objects", total)})

	table.Render()
	return buf.String()
}
