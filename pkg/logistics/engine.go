// Package logistics reconciles a logistics export against the project store:
// rows are matched to projects by PI and only the cells a row actually fills
// are written.
package logistics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shiptrack/entities"
	"shiptrack/pkg/headermap"
	"shiptrack/pkg/normalize"
	"shiptrack/pkg/project/repository"
	"shiptrack/pkg/tabular"
)

// SyncLayout is the layout of the latest_logistics_sync setting.
const SyncLayout = "02-01-2006 15:04"

type Result struct {
	Rows      int    `json:"rows"`
	NoPI      int    `json:"no_pi"`
	Unmatched int    `json:"unmatched"`
	Matched   int    `json:"matched"`
	Updated   int64  `json:"updated"`
	SyncedAt  string `json:"synced_at"`
}

type Engine struct {
	repo repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func New(repo repository.Repository, now func() time.Time, log *zap.Logger) *Engine {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{repo: repo, now: now, log: log}
}

// Run applies every row of t in file order inside one transaction and stamps
// the sync marker last. A store error rolls the whole batch back.
func (e *Engine) Run(ctx context.Context, t tabular.Table) (*Result, error) {
	m := headermap.Resolve(t.Headers, headermap.Logistics)
	if m.Column(headermap.PI) < 0 {
		e.log.Warn("logistics file has no PI column, only the sync marker will move")
	}

	res := &Result{Rows: len(t.Rows)}
	err := e.repo.Transaction(ctx, func(tx repository.Repository) error {
		idx, err := tx.PIIndex(ctx)
		if err != nil {
			return fmt.Errorf("load PI index: %w", err)
		}
		for _, cells := range t.Rows {
			row := m.Project(cells)
			pi, ok := normalize.String(row.Value(headermap.PI))
			if !ok {
				res.NoPI++
				continue
			}
			ids := idx[normalize.PI(pi)]
			if len(ids) == 0 {
				res.Unmatched++
				continue
			}
			res.Matched++
			n, err := tx.ApplyLogistics(ctx, ids, patchFrom(row))
			if err != nil {
				return fmt.Errorf("update PI %s: %w", pi, err)
			}
			res.Updated += n
		}
		res.SyncedAt = e.now().Format(SyncLayout)
		return tx.PutSetting(ctx, entities.SettingLatestSync, res.SyncedAt)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info("logistics import applied",
		zap.Int("rows", res.Rows),
		zap.Int("matched", res.Matched),
		zap.Int("unmatched", res.Unmatched),
		zap.Int("no_pi", res.NoPI),
		zap.Int64("updated", res.Updated),
		zap.String("synced_at", res.SyncedAt),
	)
	return res, nil
}

func patchFrom(row headermap.Row) repository.LogisticsPatch {
	str := func(field string) *string {
		if v, ok := normalize.String(row.Value(field)); ok {
			return &v
		}
		return nil
	}
	date := func(field string) *string {
		if v, ok := normalize.Date(row.Value(field)); ok {
			return &v
		}
		return nil
	}
	return repository.LogisticsPatch{
		BillNo:            str(headermap.Bill),
		LotNo:             str(headermap.LotNo),
		DeclarationNo:     str(headermap.DeclarationNo),
		S4InWarehouseDate: date(headermap.S4InWarehouseDate),
		S4ArrivalPortDate: date(headermap.S4ArrivalPortDate),
		S4DepartureDate:   date(headermap.S4DepartureDate),
	}
}
