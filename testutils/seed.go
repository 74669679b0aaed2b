package testutils

import (
	"releasetracker/app/models"

	"gorm.io/gorm"
)

type DataSeed struct {
	Releases []models.Release
}

// Seed inserts a fresh copy of every release and returns the stored rows,
// ids included.
func (seed *DataSeed) Seed(db *gorm.DB) []models.Release {
	if seed == nil {
		return nil
	}
	created := make([]models.Release, 0, len(seed.Releases))
	for _, release := range seed.Releases {
		release.ID = 0
		if err := db.Create(&release).Error; err != nil {
			panic(err)
		}
		created = append(created, release)
	}
	return created
}
