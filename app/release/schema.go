package release

import (
	"bytes"
	"encoding/json"

	"releasetracker/app/models"
)

// Envelope wraps every /api/releases response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

type CreateReleaseRequest struct {
	ReleaseName       string            `json:"releaseName" validate:"required,max=255"`
	Version           string            `json:"version" validate:"required,max=50"`
	ReleaseDate       string            `json:"releaseDate" validate:"required"`
	Remarks           *string           `json:"remarks,omitempty"`
	Checklist         *models.Checklist `json:"checklist,omitempty"`
	ChecklistProgress *models.Progress  `json:"checklistProgress,omitempty"`
}

// Optional tracks whether a JSON key was present at all, separately from its
// value. A present null sets Null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// ReleasePatch is a partial update. Only fields with Set are applied.
type ReleasePatch struct {
	ReleaseName       Optional[string]             `json:"releaseName"`
	Version           Optional[string]             `json:"version"`
	ReleaseDate       Optional[models.ReleaseDate] `json:"releaseDate"`
	Remarks           Optional[string]             `json:"remarks"`
	Checklist         Optional[models.Checklist]   `json:"checklist"`
	ChecklistProgress Optional[models.Progress]    `json:"checklistProgress"`
}

func (p ReleasePatch) IsEmpty() bool {
	return !p.ReleaseName.Set &&
		!p.Version.Set &&
		!p.ReleaseDate.Set &&
		!p.Remarks.Set &&
		!p.Checklist.Set &&
		!p.ChecklistProgress.Set
}

// MarshalJSON emits only the fields that are set, so a patch survives a
// round trip through the wire unchanged.
func (p ReleasePatch) MarshalJSON() ([]byte, error) {
	fields := map[string]interface{}{}
	put := func(key string, set bool, v json.Marshaler) {
		if set {
			fields[key] = v
		}
	}
	put("releaseName", p.ReleaseName.Set, p.ReleaseName)
	put("version", p.Version.Set, p.Version)
	put("releaseDate", p.ReleaseDate.Set, p.ReleaseDate)
	put("remarks", p.Remarks.Set, p.Remarks)
	put("checklist", p.Checklist.Set, p.Checklist)
	put("checklistProgress", p.ChecklistProgress.Set, p.ChecklistProgress)
	return json.Marshal(fields)
}
