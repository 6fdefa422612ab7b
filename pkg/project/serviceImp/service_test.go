package serviceImp

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shiptrack/database"
	"shiptrack/entities"
	"shiptrack/pkg/ingest"
	"shiptrack/pkg/project/repository"
	"shiptrack/pkg/project/repositoryImp"
	svc "shiptrack/pkg/project/service"
	"shiptrack/pkg/tabular"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func setup(t *testing.T) (svc.Service, repository.Repository, *clock) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "svc.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	c := &clock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	repo := repositoryImp.New(db)
	return New(repo, c.now, zap.NewNop()), repo, c
}

func formCandidate() ingest.Candidate {
	return ingest.Candidate{
		DGWPIC: "Lan", AsusPIC: "Minh", SKUCode: "nb-b1403cva",
		Qty: "3", PriceVND: "12000000", SI: "SI001", EU: "EU-HN",
	}
}

func TestEndToEnd_FormThenLogistics(t *testing.T) {
	s, repo, c := setup(t)
	ctx := context.Background()

	p, err := s.CreateFromForm(ctx, formCandidate())
	require.NoError(t, err)
	assert.Equal(t, "PJT-00001", p.ProjectID)
	assert.Equal(t, "NB-B1403CVA", p.SKUCode)
	created := p.RowCreatedAt

	_, err = s.QuickPI(ctx, p.ProjectID, " pi-2024-01 ", "PM")
	require.NoError(t, err)

	c.t = c.t.Add(48 * time.Hour)
	csv := "Hợp đồng/ Số PO NK,Bill\nPI-2024-01,BL777\n"
	synced, err := s.ImportLogistics(ctx, "s4.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, "03-03-2024 09:00", synced)

	got, err := repo.FindByID(ctx, p.ProjectID)
	require.NoError(t, err)
	require.NotNil(t, got.BillNo)
	assert.Equal(t, "BL777", *got.BillNo)
	assert.True(t, got.RowCreatedAt.Equal(created))

	view, err := s.List(ctx, svc.Filter{})
	require.NoError(t, err)
	require.NotNil(t, view.LatestSync)
	assert.Equal(t, synced, *view.LatestSync)
}

func TestCreateFromForm_Invalid(t *testing.T) {
	s, repo, _ := setup(t)
	c := formCandidate()
	c.Qty = "zero"

	_, err := s.CreateFromForm(context.Background(), c)
	var verr *ingest.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ingest.SkipBadQty, verr.Reason)

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateFromPaste(t *testing.T) {
	s, repo, _ := setup(t)
	ctx := context.Background()
	text := "DGW\tASUS\tPart\tSKU\tQty\tPrice\tMail\tSI\tEU\n" +
		"Lan\tMinh\tP1\tsku-a\t5\t100\t\tSI1\tEU1\n" +
		"Lan\tMinh\tP2\tsku-b\t2\t50\t\t\tEU2\n" +
		"Lan\tMinh\n"

	tally, err := s.CreateFromPaste(ctx, text)
	require.NoError(t, err)
	assert.Equal(t, ingest.Tally{Created: 1, Skipped: 2}, tally)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "SKU-A", all[0].SKUCode)

	_, err = s.CreateFromPaste(ctx, "  \n ")
	assert.ErrorIs(t, err, svc.ErrEmptyInput)
}

func TestCreateFromFile(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	csv := "Mã hàng;Số lượng;Đơn giá FV;DGW PIC;ASUS PIC;SI;EU\n" +
		"sku1;4;1000;Lan;Minh;SI1;EU1\n" +
		"sku2;-1;1000;Lan;Minh;SI1;EU1\n"
	tally, err := s.CreateFromFile(ctx, "projects.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, ingest.Tally{Created: 1, Skipped: 1}, tally)

	_, err = s.CreateFromFile(ctx, "projects.csv", strings.NewReader("SI,EU\nS,E\n"))
	var merr *ingest.MappingError
	require.ErrorAs(t, err, &merr)

	_, err = s.CreateFromFile(ctx, "projects.pdf", strings.NewReader("x"))
	var ioerr *tabular.IOError
	require.ErrorAs(t, err, &ioerr)
}

func TestQuickPI(t *testing.T) {
	s, repo, _ := setup(t)
	ctx := context.Background()
	p, err := s.CreateFromForm(ctx, formCandidate())
	require.NoError(t, err)

	_, err = s.QuickPI(ctx, p.ProjectID, "   ", "PM")
	assert.ErrorIs(t, err, svc.ErrBlankPI)

	_, err = s.QuickPI(ctx, "PJT-09999", "PI1", "PM")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := s.QuickPI(ctx, p.ProjectID, "abc-1", "Hoa")
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", *got.PINo)

	logs, err := repo.ListLogs(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Confirmed PI (ABC-1)", logs[0].StatusText)
	assert.Equal(t, "Hoa", logs[0].UpdatedBy)
	require.NotNil(t, logs[0].Note)
	assert.Empty(t, *logs[0].Note)
}

func TestStatusLogs(t *testing.T) {
	s, _, c := setup(t)
	ctx := context.Background()
	p, err := s.CreateFromForm(ctx, formCandidate())
	require.NoError(t, err)

	_, err = s.AddStatus(ctx, p.ProjectID, " ", "", "PM")
	assert.ErrorIs(t, err, svc.ErrBlankStatus)
	_, err = s.AddStatus(ctx, "PJT-00404", "Shipped", "", "PM")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.AddStatus(ctx, p.ProjectID, "Ordered", "", "PM")
	require.NoError(t, err)
	c.t = c.t.Add(time.Hour)
	_, err = s.AddStatus(ctx, p.ProjectID, " Shipped ", " via sea ", "PM")
	require.NoError(t, err)

	logs, err := s.ListLogs(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Ordered", logs[0].StatusText)
	assert.Nil(t, logs[0].Note)
	assert.Equal(t, "Shipped", logs[1].StatusText)
	assert.Equal(t, "via sea", *logs[1].Note)

	_, err = s.ListLogs(ctx, "PJT-00404")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBulkStatus(t *testing.T) {
	s, repo, _ := setup(t)
	ctx := context.Background()
	for _, pi := range []string{"PI-A", "PI-B"} {
		p, err := s.CreateFromForm(ctx, formCandidate())
		require.NoError(t, err)
		_, err = s.QuickPI(ctx, p.ProjectID, pi, "PM")
		require.NoError(t, err)
	}
	other, err := s.CreateFromForm(ctx, formCandidate())
	require.NoError(t, err)

	csv := "PI,Bill,Số lô\nPI-A,BL-100,LOT-1\nPI-B,BL-101,LOT-2\n"
	_, err = s.ImportLogistics(ctx, "s4.csv", strings.NewReader(csv))
	require.NoError(t, err)

	n, err := s.BulkStatus(ctx, svc.BulkFilter{Bill: "bl-10"}, "Arrived", "", "PM")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	logs, err := repo.ListLogs(ctx, other.ProjectID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	_, err = s.BulkStatus(ctx, svc.BulkFilter{Lot: "LOT-9"}, "Arrived", "", "PM")
	assert.ErrorIs(t, err, svc.ErrNoMatch)
	_, err = s.BulkStatus(ctx, svc.BulkFilter{}, "", "", "PM")
	assert.ErrorIs(t, err, svc.ErrBlankStatus)
}

func TestList_FiltersAndOrder(t *testing.T) {
	s, _, c := setup(t)
	ctx := context.Background()

	first := formCandidate()
	first.EU = "Đà Nẵng"
	_, err := s.CreateFromForm(ctx, first)
	require.NoError(t, err)
	c.t = c.t.Add(time.Minute)
	_, err = s.CreateFromForm(ctx, formCandidate())
	require.NoError(t, err)

	view, err := s.List(ctx, svc.Filter{})
	require.NoError(t, err)
	require.Equal(t, 2, view.Total)
	assert.Equal(t, "PJT-00002", view.Projects[0].ProjectID)
	assert.Nil(t, view.LatestSync)

	view, err = s.List(ctx, svc.Filter{EU: "ĐÀ"})
	require.NoError(t, err)
	require.Equal(t, 1, view.Total)
	assert.Equal(t, "PJT-00001", view.Projects[0].ProjectID)

	view, err = s.List(ctx, svc.Filter{PI: "x"})
	require.NoError(t, err)
	assert.Zero(t, view.Total)
}

func TestExport_ReimportsThroughAliases(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()
	p, err := s.CreateFromForm(ctx, formCandidate())
	require.NoError(t, err)
	_, err = s.QuickPI(ctx, p.ProjectID, "PI-9", "PM")
	require.NoError(t, err)

	x, err := s.Export(ctx, svc.Filter{})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, x.Write(&buf))

	table, err := tabular.Read("view.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	cands, err := ingest.FromTable(table)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "NB-B1403CVA", cands[0].SKUCode)
	assert.Equal(t, "3", cands[0].Qty)

	tally, err := s.CreateFromFile(ctx, "view.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Created)
}

func TestImportLogistics_BadFile(t *testing.T) {
	s, repo, _ := setup(t)
	_, err := s.ImportLogistics(context.Background(), "s4.docx", strings.NewReader("x"))
	var ioerr *tabular.IOError
	require.ErrorAs(t, err, &ioerr)

	v, err := repo.GetSetting(context.Background(), entities.SettingLatestSync)
	require.NoError(t, err)
	assert.Nil(t, v)
}
