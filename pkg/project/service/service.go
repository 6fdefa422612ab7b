package service

import (
	"context"
	"errors"
	"io"

	"github.com/xuri/excelize/v2"

	"shiptrack/entities"
	"shiptrack/pkg/ingest"
	"shiptrack/pkg/normalize"
)

var (
	ErrBlankPI     = errors.New("PI number is required")
	ErrBlankStatus = errors.New("status text is required")
	ErrEmptyInput  = errors.New("nothing to import")
	ErrNoMatch     = errors.New("no project matches the filter")
)

type Service interface {
	CreateFromForm(ctx context.Context, c ingest.Candidate) (*entities.Project, error)
	CreateFromPaste(ctx context.Context, text string) (ingest.Tally, error)
	CreateFromFile(ctx context.Context, filename string, r io.Reader) (ingest.Tally, error)
	ImportLogistics(ctx context.Context, filename string, r io.Reader) (string, error)

	QuickPI(ctx context.Context, projectID, pi, actor string) (*entities.Project, error)
	AddStatus(ctx context.Context, projectID, text, note, actor string) (*entities.StatusLog, error)
	BulkStatus(ctx context.Context, f BulkFilter, text, note, actor string) (int, error)
	ListLogs(ctx context.Context, projectID string) ([]entities.StatusLog, error)

	List(ctx context.Context, f Filter) (*View, error)
	Export(ctx context.Context, f Filter) (*excelize.File, error)
}

// Filter holds the status-view keywords. Every non-blank keyword must be
// contained (case-insensitively) in its column.
type Filter struct {
	SI          string `query:"si" json:"si"`
	EU          string `query:"eu" json:"eu"`
	DGWPIC      string `query:"dgw_pic" json:"dgw_pic"`
	AsusPIC     string `query:"asus_pic" json:"asus_pic"`
	SKUCode     string `query:"sku_code" json:"sku_code"`
	PartNumber  string `query:"partnumber" json:"partnumber"`
	PI          string `query:"pi" json:"pi"`
	Lot         string `query:"lot" json:"lot"`
	Bill        string `query:"bill" json:"bill"`
	Declaration string `query:"declaration" json:"declaration"`
}

func (f Filter) Match(p *entities.Project) bool {
	return normalize.Contains(&p.SI, f.SI) &&
		normalize.Contains(&p.EU, f.EU) &&
		normalize.Contains(&p.DGWPIC, f.DGWPIC) &&
		normalize.Contains(&p.AsusPIC, f.AsusPIC) &&
		normalize.Contains(&p.SKUCode, f.SKUCode) &&
		normalize.Contains(p.PartNumber, f.PartNumber) &&
		normalize.Contains(p.PINo, f.PI) &&
		normalize.Contains(p.LotNo, f.Lot) &&
		normalize.Contains(p.BillNo, f.Bill) &&
		normalize.Contains(p.DeclarationNo, f.Declaration)
}

// BulkFilter selects the projects a bulk status update goes to.
type BulkFilter struct {
	Bill        string `json:"bill" form:"bill"`
	Lot         string `json:"lot" form:"lot"`
	Declaration string `json:"declaration" form:"declaration"`
}

func (f BulkFilter) Match(p *entities.Project) bool {
	return normalize.Contains(p.BillNo, f.Bill) &&
		normalize.Contains(p.LotNo, f.Lot) &&
		normalize.Contains(p.DeclarationNo, f.Declaration)
}

// View is the filtered status table plus the global sync marker.
type View struct {
	Projects   []entities.Project `json:"projects"`
	Total      int                `json:"total"`
	LatestSync *string            `json:"latest_sync"`
}
