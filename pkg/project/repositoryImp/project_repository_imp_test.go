package repositoryImp

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"shiptrack/database"
	"shiptrack/entities"
	"shiptrack/pkg/project/repository"
)

func setupRepo(t *testing.T) (repository.Repository, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return New(db), db
}

func strp(s string) *string { return &s }

func seedProject(t *testing.T, r repository.Repository, pi *string, created time.Time) *entities.Project {
	t.Helper()
	ctx := context.Background()
	var p *entities.Project
	err := r.Transaction(ctx, func(tx repository.Repository) error {
		id, err := tx.NextProjectID(ctx)
		if err != nil {
			return err
		}
		p = &entities.Project{
			ProjectID: id, DGWPIC: "Nguyen Van A", AsusPIC: "Alice", SKUCode: "NB-B1403CVA",
			Qty: 50, PriceVND: 15500000, SI: "SI001", EU: "EU-HN", PINo: pi, RowCreatedAt: created,
		}
		return tx.Create(ctx, p)
	})
	require.NoError(t, err)
	return p
}

func TestNextProjectID_Sequential(t *testing.T) {
	r, _ := setupRepo(t)
	now := time.Now()
	a := seedProject(t, r, nil, now)
	b := seedProject(t, r, nil, now)
	assert.Equal(t, "PJT-00001", a.ProjectID)
	assert.Equal(t, "PJT-00002", b.ProjectID)
}

func TestNextProjectID_ContinuesFromLegacyRows(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&entities.Project{
		ProjectID: "PJT-00041", DGWPIC: "a", AsusPIC: "b", SKUCode: "S", Qty: 1, SI: "s", EU: "e", RowCreatedAt: time.Now(),
	}).Error)

	id, err := r.NextProjectID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PJT-00042", id)
}

func TestTransaction_RollsBack(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := r.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.NextProjectID(ctx); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	seq, err := r.GetSetting(ctx, entities.SettingProjectSeq)
	require.NoError(t, err)
	assert.Nil(t, seq)
}

func TestPIIndex_CaseAndSpaceInsensitive(t *testing.T) {
	r, _ := setupRepo(t)
	now := time.Now()
	a := seedProject(t, r, strp(" pi-001 "), now)
	b := seedProject(t, r, strp("PI-001"), now)
	seedProject(t, r, nil, now)
	seedProject(t, r, strp("  "), now)

	idx, err := r.PIIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"PI-001": {a.ProjectID, b.ProjectID}}, idx)
}

func TestApplyLogistics_OnlyPresentColumns(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	p := seedProject(t, r, strp("PI-1"), created)
	_, err := r.ApplyLogistics(ctx, []string{p.ProjectID}, repository.LogisticsPatch{BillNo: strp("B1"), LotNo: strp("L1")})
	require.NoError(t, err)

	n, err := r.ApplyLogistics(ctx, []string{p.ProjectID}, repository.LogisticsPatch{DeclarationNo: strp("D9")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := r.FindByID(ctx, p.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, "B1", *got.BillNo)
	assert.Equal(t, "L1", *got.LotNo)
	assert.Equal(t, "D9", *got.DeclarationNo)
	assert.True(t, created.Equal(got.RowCreatedAt))

	n, err = r.ApplyLogistics(ctx, []string{p.ProjectID}, repository.LogisticsPatch{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFindByID_NotFound(t *testing.T) {
	r, _ := setupRepo(t)
	_, err := r.FindByID(context.Background(), "PJT-99999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.SetPI(context.Background(), "PJT-99999", "X"), repository.ErrNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	r, _ := setupRepo(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	old := seedProject(t, r, nil, base)
	newer := seedProject(t, r, nil, base.Add(time.Hour))

	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ProjectID, list[0].ProjectID)
	assert.Equal(t, old.ProjectID, list[1].ProjectID)
}

func TestLogs_InsertionOrderAndCascade(t *testing.T) {
	r, db := setupRepo(t)
	ctx := context.Background()
	p := seedProject(t, r, nil, time.Now())
	for _, s := range []string{"Confirmed PI (X)", "Shipped", "Arrived"} {
		require.NoError(t, r.AppendLog(ctx, &entities.StatusLog{ProjectID: p.ProjectID, StatusText: s, UpdatedBy: "PM", UpdatedAt: time.Now()}))
	}
	logs, err := r.ListLogs(ctx, p.ProjectID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Confirmed PI (X)", logs[0].StatusText)
	assert.Equal(t, "Arrived", logs[2].StatusText)

	err = r.AppendLog(ctx, &entities.StatusLog{ProjectID: "PJT-77777", StatusText: "x", UpdatedBy: "PM", UpdatedAt: time.Now()})
	assert.Error(t, err, "foreign key")

	require.NoError(t, db.Delete(&entities.Project{}, "project_id = ?", p.ProjectID).Error)
	logs, err = r.ListLogs(ctx, p.ProjectID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSettings_Upsert(t *testing.T) {
	r, _ := setupRepo(t)
	ctx := context.Background()
	v, err := r.GetSetting(ctx, entities.SettingLatestSync)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.PutSetting(ctx, entities.SettingLatestSync, "05-03-2024 10:00"))
	require.NoError(t, r.PutSetting(ctx, entities.SettingLatestSync, "06-03-2024 11:30"))
	v, err = r.GetSetting(ctx, entities.SettingLatestSync)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "06-03-2024 11:30", *v)
}
