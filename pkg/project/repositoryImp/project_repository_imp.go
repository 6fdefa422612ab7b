package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shiptrack/entities"
	"shiptrack/pkg/normalize"
	"shiptrack/pkg/project/repository"
)

const idPrefix = "PJT-"

type projectRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.Repository { return &projectRepo{db} }

func (r *projectRepo) Transaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&projectRepo{tx})
	})
}

// NextProjectID bumps the project_seq counter. On a store created before the
// counter existed it starts from the highest PJT number already used.
func (r *projectRepo) NextProjectID(ctx context.Context) (string, error) {
	cur, err := r.GetSetting(ctx, entities.SettingProjectSeq)
	if err != nil {
		return "", err
	}
	var n int
	if cur != nil {
		if n, err = strconv.Atoi(*cur); err != nil {
			return "", fmt.Errorf("bad %s value %q: %w", entities.SettingProjectSeq, *cur, err)
		}
	} else if n, err = r.maxUsedSeq(ctx); err != nil {
		return "", err
	}
	n++
	if err := r.PutSetting(ctx, entities.SettingProjectSeq, strconv.Itoa(n)); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%05d", idPrefix, n), nil
}

func (r *projectRepo) maxUsedSeq(ctx context.Context) (int, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&entities.Project{}).Pluck("project_id", &ids).Error; err != nil {
		return 0, err
	}
	top := 0
	for _, id := range ids {
		if v, err := strconv.Atoi(strings.TrimPrefix(id, idPrefix)); err == nil && v > top {
			top = v
		}
	}
	return top, nil
}

func (r *projectRepo) Create(ctx context.Context, p *entities.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) FindByID(ctx context.Context, id string) (*entities.Project, error) {
	var p entities.Project
	if err := r.db.WithContext(ctx).Where("project_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

// List returns every project, newest first.
func (r *projectRepo) List(ctx context.Context) ([]entities.Project, error) {
	var out []entities.Project
	err := r.db.WithContext(ctx).Order("row_created_at DESC, project_id DESC").Find(&out).Error
	return out, err
}

func (r *projectRepo) PIIndex(ctx context.Context) (map[string][]string, error) {
	var rows []struct {
		ProjectID string `gorm:"column:project_id"`
		PINo      string `gorm:"column:pi_no"`
	}
	err := r.db.WithContext(ctx).Model(&entities.Project{}).
		Select("project_id, pi_no").
		Where("pi_no IS NOT NULL").
		Order("project_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	idx := make(map[string][]string, len(rows))
	for _, row := range rows {
		key := normalize.PI(row.PINo)
		if key == "" {
			continue
		}
		idx[key] = append(idx[key], row.ProjectID)
	}
	return idx, nil
}

func (r *projectRepo) SetPI(ctx context.Context, id, pi string) error {
	res := r.db.WithContext(ctx).Model(&entities.Project{}).Where("project_id = ?", id).Update("pi_no", pi)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	return nil
}

// ApplyLogistics writes only the patch's present columns; row_created_at and
// every other column are left alone.
func (r *projectRepo) ApplyLogistics(ctx context.Context, ids []string, p repository.LogisticsPatch) (int64, error) {
	upd := p.Columns()
	if len(upd) == 0 || len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&entities.Project{}).Where("project_id IN ?", ids).Updates(upd)
	return res.RowsAffected, res.Error
}

func (r *projectRepo) AppendLog(ctx context.Context, l *entities.StatusLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *projectRepo) ListLogs(ctx context.Context, projectID string) ([]entities.StatusLog, error) {
	var out []entities.StatusLog
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("log_id ASC").Find(&out).Error
	return out, err
}

func (r *projectRepo) GetSetting(ctx context.Context, key string) (*string, error) {
	var s entities.Setting
	err := r.db.WithContext(ctx).Where("key = ?", key).Limit(1).Find(&s).Error
	if err != nil {
		return nil, err
	}
	if s.Key == "" {
		return nil, nil
	}
	return s.Value, nil
}

func (r *projectRepo) PutSetting(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&entities.Setting{Key: key, Value: &value}).Error
}
