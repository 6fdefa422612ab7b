package ingest

import (
	"shiptrack/pkg/headermap"
	"shiptrack/pkg/tabular"
)

// FromTable maps an uploaded Project-Add table onto candidates. Missing
// required columns reject the whole file.
func FromTable(t tabular.Table) ([]Candidate, error) {
	m := headermap.Resolve(t.Headers, headermap.ProjectAdd)
	if missing := m.Missing(); len(missing) > 0 {
		return nil, &MappingError{Missing: missing}
	}
	out := make([]Candidate, 0, len(t.Rows))
	for _, cells := range t.Rows {
		row := m.Project(cells)
		out = append(out, Candidate{
			DGWPIC:         row.Value(headermap.DGWPIC),
			AsusPIC:        row.Value(headermap.AsusPIC),
			PartNumber:     row.Value(headermap.PartNumber),
			SKUCode:        row.Value(headermap.SKUCode),
			Qty:            row.Value(headermap.Qty),
			PriceVND:       row.Value(headermap.PriceVND),
			AsusOrderEmail: row.Value(headermap.AsusOrderEmail),
			SI:             row.Value(headermap.SI),
			EU:             row.Value(headermap.EU),
		})
	}
	return out, nil
}
