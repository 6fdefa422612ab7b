package serviceImp

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"shiptrack/entities"
	"shiptrack/pkg/ingest"
	"shiptrack/pkg/logistics"
	"shiptrack/pkg/normalize"
	"shiptrack/pkg/project/repository"
	svc "shiptrack/pkg/project/service"
	"shiptrack/pkg/tabular"
)

type service struct {
	repo   repository.Repository
	engine *logistics.Engine
	now    func() time.Time
	log    *zap.Logger
}

// New wires the project service. now may be nil (time.Now).
func New(repo repository.Repository, now func() time.Time, log *zap.Logger) svc.Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		repo:   repo,
		engine: logistics.New(repo, now, log.Named("logistics")),
		now:    now,
		log:    log,
	}
}

func (s *service) CreateFromForm(ctx context.Context, c ingest.Candidate) (*entities.Project, error) {
	res := ingest.Validate(c)
	if !res.OK() {
		return nil, &ingest.ValidationError{Reason: res.Skip}
	}
	created, err := s.insert(ctx, []ingest.ValidRow{*res.Row})
	if err != nil {
		return nil, err
	}
	s.log.Info("project created", zap.String("project_id", created[0].ProjectID))
	return &created[0], nil
}

func (s *service) CreateFromPaste(ctx context.Context, text string) (ingest.Tally, error) {
	if strings.TrimSpace(text) == "" {
		return ingest.Tally{}, svc.ErrEmptyInput
	}
	cands, short := ingest.ParsePaste(text)
	return s.ingest(ctx, "paste", cands, short)
}

func (s *service) CreateFromFile(ctx context.Context, filename string, r io.Reader) (ingest.Tally, error) {
	table, err := tabular.Read(filename, r)
	if err != nil {
		return ingest.Tally{}, err
	}
	cands, err := ingest.FromTable(table)
	if err != nil {
		return ingest.Tally{}, err
	}
	return s.ingest(ctx, "file", cands, 0)
}

func (s *service) ingest(ctx context.Context, source string, cands []ingest.Candidate, skipped int) (ingest.Tally, error) {
	rows, invalid := ingest.ValidateAll(cands)
	tally := ingest.Tally{Skipped: skipped + invalid}
	if len(rows) > 0 {
		created, err := s.insert(ctx, rows)
		if err != nil {
			return ingest.Tally{}, err
		}
		tally.Created = len(created)
	}
	s.log.Info("projects ingested",
		zap.String("source", source),
		zap.Int("created", tally.Created),
		zap.Int("skipped", tally.Skipped),
	)
	return tally, nil
}

// insert stores a whole batch or nothing.
func (s *service) insert(ctx context.Context, rows []ingest.ValidRow) ([]entities.Project, error) {
	out := make([]entities.Project, 0, len(rows))
	stamp := s.now()
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		for _, row := range rows {
			id, err := tx.NextProjectID(ctx)
			if err != nil {
				return fmt.Errorf("allocate project id: %w", err)
			}
			p := entities.Project{
				ProjectID:      id,
				DGWPIC:         row.DGWPIC,
				AsusPIC:        row.AsusPIC,
				PartNumber:     row.PartNumber,
				SKUCode:        row.SKUCode,
				Qty:            row.Qty,
				PriceVND:       row.PriceVND,
				AsusOrderEmail: row.AsusOrderEmail,
				SI:             row.SI,
				EU:             row.EU,
				RowCreatedAt:   stamp,
			}
			if err := tx.Create(ctx, &p); err != nil {
				return fmt.Errorf("insert %s: %w", id, err)
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) ImportLogistics(ctx context.Context, filename string, r io.Reader) (string, error) {
	table, err := tabular.Read(filename, r)
	if err != nil {
		return "", err
	}
	res, err := s.engine.Run(ctx, table)
	if err != nil {
		return "", err
	}
	return res.SyncedAt, nil
}

// QuickPI sets the PI and records the confirmation in the project's log.
func (s *service) QuickPI(ctx context.Context, projectID, pi, actor string) (*entities.Project, error) {
	pi = normalize.PI(pi)
	if pi == "" {
		return nil, svc.ErrBlankPI
	}
	var p *entities.Project
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if err := tx.SetPI(ctx, projectID, pi); err != nil {
			return err
		}
		err := tx.AppendLog(ctx, &entities.StatusLog{
			ProjectID:  projectID,
			StatusText: fmt.Sprintf("Confirmed PI (%s)", pi),
			Note:       new(string),
			UpdatedBy:  actor,
			UpdatedAt:  s.now(),
		})
		if err != nil {
			return err
		}
		p, err = tx.FindByID(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) AddStatus(ctx context.Context, projectID, text, note, actor string) (*entities.StatusLog, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, svc.ErrBlankStatus
	}
	l := &entities.StatusLog{
		ProjectID:  projectID,
		StatusText: text,
		Note:       normalize.Ptr(note),
		UpdatedBy:  actor,
		UpdatedAt:  s.now(),
	}
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.FindByID(ctx, projectID); err != nil {
			return err
		}
		return tx.AppendLog(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// BulkStatus appends the same log entry to every project the filter selects.
// Blank filter fields select everything.
func (s *service) BulkStatus(ctx context.Context, f svc.BulkFilter, text, note, actor string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, svc.ErrBlankStatus
	}
	stamp := s.now()
	n := 0
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		all, err := tx.List(ctx)
		if err != nil {
			return err
		}
		for i := range all {
			if !f.Match(&all[i]) {
				continue
			}
			err := tx.AppendLog(ctx, &entities.StatusLog{
				ProjectID:  all[i].ProjectID,
				StatusText: text,
				Note:       normalize.Ptr(note),
				UpdatedBy:  actor,
				UpdatedAt:  stamp,
			})
			if err != nil {
				return err
			}
			n++
		}
		if n == 0 {
			return svc.ErrNoMatch
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("bulk status written", zap.Int("projects", n), zap.String("status", text))
	return n, nil
}

func (s *service) ListLogs(ctx context.Context, projectID string) ([]entities.StatusLog, error) {
	if _, err := s.repo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListLogs(ctx, projectID)
}

// List filters in Go: SQLite's LOWER only folds ASCII and the keywords are
// often Vietnamese.
func (s *service) List(ctx context.Context, f svc.Filter) (*svc.View, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Project, 0, len(all))
	for i := range all {
		if f.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	sync, err := s.repo.GetSetting(ctx, entities.SettingLatestSync)
	if err != nil {
		return nil, err
	}
	return &svc.View{Projects: out, Total: len(out), LatestSync: sync}, nil
}
