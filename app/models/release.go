package models

import (
	"time"

	"gorm.io/datatypes"
)

type Release struct {
	ID                uint                          `gorm:"primaryKey" json:"id"`
	ReleaseName       string                        `gorm:"type:varchar(255);not null" json:"releaseName"`
	Version           string                        `gorm:"type:varchar(50);not null" json:"version"`
	ReleaseDate       ReleaseDate                   `gorm:"not null;index" json:"releaseDate"`
	Remarks           *string                       `gorm:"type:text" json:"remarks"`
	Checklist         datatypes.JSONType[Checklist] `gorm:"not null" json:"checklist"`
	ChecklistProgress datatypes.JSONType[Progress]  `gorm:"not null" json:"checklistProgress"`
	CreatedAt         time.Time                     `json:"createdAt"`
	UpdatedAt         time.Time                     `json:"updatedAt"`
}

func (Release) TableName() string {
	return "releases"
}

func (r Release) Tasks() Checklist {
	return r.Checklist.Data()
}

func (r Release) Progress() Progress {
	return r.ChecklistProgress.Data()
}

// Status is derived from the stored progress snapshot, not the checklist.
func (r Release) Status() Status {
	return r.Progress().Status()
}
