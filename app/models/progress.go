package models

type Status string

const (
	StatusPlanned Status = "planned"
	StatusOngoing Status = "ongoing"
	StatusDone    Status = "done"
)

type Progress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

func DefaultProgress() Progress {
	return Progress{Total: len(ChecklistKeys)}
}

// ComputeProgress derives the progress summary of a checklist.
func ComputeProgress(c Checklist) Progress {
	total := len(ChecklistKeys)
	completed := 0
	for _, key := range ChecklistKeys {
		if c.Get(key) {
			completed++
		}
	}
	return Progress{
		Total:      total,
		Completed:  completed,
		Percentage: Percentage(completed, total),
	}
}

// Percentage rounds completed/total*100 half up. A zero total yields 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// ClassifyStatus maps a completion count to a status. completed == 0 is
// checked first, so an empty checklist is planned rather than done.
func ClassifyStatus(completed, total int) Status {
	switch {
	case completed == 0:
		return StatusPlanned
	case completed == total:
		return StatusDone
	default:
		return StatusOngoing
	}
}

func (p Progress) Status() Status {
	return ClassifyStatus(p.Completed, p.Total)
}
