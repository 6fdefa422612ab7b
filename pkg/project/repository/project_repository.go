package repository

import (
	"context"
	"errors"

	"shiptrack/entities"
)

var ErrNotFound = errors.New("project not found")

// Repository is the project store: projects, their status logs and the
// settings rows. Transaction hands fn a Repository bound to one transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	NextProjectID(ctx context.Context) (string, error)
	Create(ctx context.Context, p *entities.Project) error
	FindByID(ctx context.Context, id string) (*entities.Project, error)
	List(ctx context.Context) ([]entities.Project, error)

	// PIIndex maps the upper-cased, trimmed PI to every project carrying it.
	PIIndex(ctx context.Context) (map[string][]string, error)
	SetPI(ctx context.Context, id, pi string) error
	ApplyLogistics(ctx context.Context, ids []string, p LogisticsPatch) (int64, error)

	AppendLog(ctx context.Context, l *entities.StatusLog) error
	ListLogs(ctx context.Context, projectID string) ([]entities.StatusLog, error)

	GetSetting(ctx context.Context, key string) (*string, error)
	PutSetting(ctx context.Context, key, value string) error
}

// LogisticsPatch carries only the fields a logistics row actually filled.
type LogisticsPatch struct {
	BillNo            *string
	LotNo             *string
	DeclarationNo     *string
	S4InWarehouseDate *string
	S4ArrivalPortDate *string
	S4DepartureDate   *string
}

func (p LogisticsPatch) Empty() bool { return len(p.Columns()) == 0 }

// Columns is the SET list for the non-nil fields.
func (p LogisticsPatch) Columns() map[string]any {
	upd := map[string]any{}
	if p.BillNo != nil {
		upd["bill_no"] = *p.BillNo
	}
	if p.LotNo != nil {
		upd["lot_no"] = *p.LotNo
	}
	if p.DeclarationNo != nil {
		upd["declaration_no"] = *p.DeclarationNo
	}
	if p.S4InWarehouseDate != nil {
		upd["s4_in_warehouse_date"] = *p.S4InWarehouseDate
	}
	if p.S4ArrivalPortDate != nil {
		upd["s4_arrival_port_date"] = *p.S4ArrivalPortDate
	}
	if p.S4DepartureDate != nil {
		upd["s4_departure_date"] = *p.S4DepartureDate
	}
	return upd
}
