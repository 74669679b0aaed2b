package release

import (
	"context"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"releasetracker/app/models"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Store persists releases. The gorm handle is injected so tests can hand in a
// transaction.
type Store struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewStore(db *gorm.DB) *Store {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Store{DB: db, validate: v}
}

// Insert stores a new release. A missing checklist or progress falls back to
// the column defaults.
func (s *Store) Insert(ctx context.Context, req CreateReleaseRequest) (*models.Release, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fromValidation(err)
	}
	releaseDate, err := models.ParseReleaseDate(req.ReleaseDate)
	if err != nil {
		return nil, violation("releaseDate", err.Error())
	}

	checklist := models.DefaultChecklist()
	if req.Checklist != nil {
		checklist = *req.Checklist
	}
	progress := models.DefaultProgress()
	if req.ChecklistProgress != nil {
		progress = *req.ChecklistProgress
	}

	release := models.Release{
		ReleaseName:       req.ReleaseName,
		Version:           req.Version,
		ReleaseDate:       releaseDate,
		Remarks:           req.Remarks,
		Checklist:         datatypes.NewJSONType(checklist),
		ChecklistProgress: datatypes.NewJSONType(progress),
	}
	if err := s.DB.WithContext(ctx).Create(&release).Error; err != nil {
		return nil, errors.Wrap(err, "inserting release")
	}
	return &release, nil
}

// SelectAll returns every release, newest release date first.
func (s *Store) SelectAll(ctx context.Context) ([]models.Release, error) {
	releases := []models.Release{}
	err := s.DB.WithContext(ctx).
		Order("release_date DESC").
		Order("created_at DESC").
		Find(&releases).Error
	if err != nil {
		return nil, errors.Wrap(err, "selecting releases")
	}
	return releases, nil
}

func (s *Store) SelectByID(ctx context.Context, id uint) (*models.Release, error) {
	return find(s.DB.WithContext(ctx), id)
}

// Update applies the fields present in patch and returns the stored row.
func (s *Store) Update(ctx context.Context, id uint, patch ReleasePatch) (*models.Release, error) {
	_, updated, err := s.update(ctx, id, patch)
	return updated, err
}

func (s *Store) update(ctx context.Context, id uint, patch ReleasePatch) (before, after *models.Release, err error) {
	if patch.IsEmpty() {
		return nil, nil, ErrNoFields
	}
	columns, err := patchColumns(patch)
	if err != nil {
		return nil, nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if before, err = find(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.Release{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return errors.Wrapf(err, "updating release %d", id)
		}
		after, err = find(tx, id)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// DeleteByID removes the release and returns the row as it was.
func (s *Store) DeleteByID(ctx context.Context, id uint) (*models.Release, error) {
	var deleted *models.Release
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if deleted, err = find(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Release{}, id).Error; err != nil {
			return errors.Wrapf(err, "deleting release %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return errors.WithStack(s.DB.WithContext(ctx).Exec("SELECT 1").Error)
}

func find(db *gorm.DB, id uint) (*models.Release, error) {
	var release models.Release
	if err := db.First(&release, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "selecting release %d", id)
	}
	return &release, nil
}

// patchColumns turns a patch into a column map, rejecting values the schema
// would not accept.
func patchColumns(patch ReleasePatch) (map[string]interface{}, error) {
	columns := map[string]interface{}{}

	if patch.ReleaseName.Set {
		if err := checkText("releaseName", patch.ReleaseName, 255); err != nil {
			return nil, err
		}
		columns["release_name"] = patch.ReleaseName.Value
	}
	if patch.Version.Set {
		if err := checkText("version", patch.Version, 50); err != nil {
			return nil, err
		}
		columns["version"] = patch.Version.Value
	}
	if patch.ReleaseDate.Set {
		if patch.ReleaseDate.Null || patch.ReleaseDate.Value.IsZero() {
			return nil, violation("releaseDate", "required")
		}
		columns["release_date"] = patch.ReleaseDate.Value
	}
	if patch.Remarks.Set {
		if patch.Remarks.Null {
			columns["remarks"] = nil
		} else {
			columns["remarks"] = patch.Remarks.Value
		}
	}
	if patch.Checklist.Set {
		if patch.Checklist.Null {
			return nil, violation("checklist", "required")
		}
		columns["checklist"] = datatypes.NewJSONType(patch.Checklist.Value)
	}
	if patch.ChecklistProgress.Set {
		if patch.ChecklistProgress.Null {
			return nil, violation("checklistProgress", "required")
		}
		columns["checklist_progress"] = datatypes.NewJSONType(patch.ChecklistProgress.Value)
	}
	return columns, nil
}

func checkText(field string, v Optional[string], max int) error {
	switch {
	case v.Null || v.Value == "":
		return violation(field, "required")
	case utf8.RuneCountInString(v.Value) > max:
		return violation(field, "max="+strconv.Itoa(max))
	}
	return nil
}
