package serviceImp

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"shiptrack/entities"
	svc "shiptrack/pkg/project/service"
)

const exportSheet = "Status"

// Column titles double as import aliases, so an exported sheet can be fed
// back through the project or logistics import.
var exportColumns = []struct {
	title string
	value func(p *entities.Project) any
}{
	{"Project ID", func(p *entities.Project) any { return p.ProjectID }},
	{"DGW PIC", func(p *entities.Project) any { return p.DGWPIC }},
	{"ASUS PIC", func(p *entities.Project) any { return p.AsusPIC }},
	{"Part Number", func(p *entities.Project) any { return deref(p.PartNumber) }},
	{"SKU Code", func(p *entities.Project) any { return p.SKUCode }},
	{"Qty", func(p *entities.Project) any { return p.Qty }},
	{"Unit Price", func(p *entities.Project) any { return p.PriceVND }},
	{"Order Email", func(p *entities.Project) any { return deref(p.AsusOrderEmail) }},
	{"SI", func(p *entities.Project) any { return p.SI }},
	{"EU", func(p *entities.Project) any { return p.EU }},
	{"PI No", func(p *entities.Project) any { return deref(p.PINo) }},
	{"Bill", func(p *entities.Project) any { return deref(p.BillNo) }},
	{"Lot No", func(p *entities.Project) any { return deref(p.LotNo) }},
	{"Declaration No", func(p *entities.Project) any { return deref(p.DeclarationNo) }},
	{"In Warehouse Date", func(p *entities.Project) any { return deref(p.S4InWarehouseDate) }},
	{"Arrival Port Date", func(p *entities.Project) any { return deref(p.S4ArrivalPortDate) }},
	{"Departure Date", func(p *entities.Project) any { return deref(p.S4DepartureDate) }},
	{"Created At", func(p *entities.Project) any { return p.RowCreatedAt.Format("02/01/2006 15:04") }},
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func (s *service) Export(ctx context.Context, f svc.Filter) (*excelize.File, error) {
	view, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}

	x := excelize.NewFile()
	if err := x.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c.title
	}
	if err := x.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err != nil {
		return nil, err
	}
	if err := x.SetCellStyle(exportSheet, "A1", last, bold); err != nil {
		return nil, err
	}
	for r := range view.Projects {
		row := make([]any, len(exportColumns))
		for i, c := range exportColumns {
			row[i] = c.value(&view.Projects[r])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := x.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	if view.LatestSync != nil {
		if err := x.SetDocProps(&excelize.DocProperties{Description: "Latest logistics sync " + *view.LatestSync}); err != nil {
			return nil, err
		}
	}
	return x, nil
}
