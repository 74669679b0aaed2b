package models

// Checklist is the fixed set of release readiness tasks.
type Checklist struct {
	PrsMerged            bool `json:"prsMerged"`
	ChangelogUpdated     bool `json:"changelogUpdated"`
	TestsPassing         bool `json:"testsPassing"`
	GithubReleaseCreated bool `json:"githubReleaseCreated"`
	DeployedDemo         bool `json:"deployedDemo"`
	TestedDemo           bool `json:"testedDemo"`
	DeployedProduction   bool `json:"deployedProduction"`
}

type ChecklistItem struct {
	Key   string
	Label string
	Done  bool
}

// ChecklistKeys lists the checklist keys in display order.
var ChecklistKeys = []string{
	"prsMerged",
	"changelogUpdated",
	"testsPassing",
	"githubReleaseCreated",
	"deployedDemo",
	"testedDemo",
	"deployedProduction",
}

var checklistLabels = map[string]string{
	"prsMerged":            "All relevant GitHub pull requests have been merged",
	"changelogUpdated":     "CHANGELOG.md files have been updated",
	"testsPassing":         "All tests are passing",
	"githubReleaseCreated": "Releases in Github created",
	"deployedDemo":         "Deployed in demo",
	"testedDemo":           "Tested thoroughly in demo",
	"deployedProduction":   "Deployed in production",
}

func DefaultChecklist() Checklist {
	return Checklist{}
}

func (c *Checklist) field(key string) *bool {
	switch key {
	case "prsMerged":
		return &c.PrsMerged
	case "changelogUpdated":
		return &c.ChangelogUpdated
	case "testsPassing":
		return &c.TestsPassing
	case "githubReleaseCreated":
		return &c.GithubReleaseCreated
	case "deployedDemo":
		return &c.DeployedDemo
	case "testedDemo":
		return &c.TestedDemo
	case "deployedProduction":
		return &c.DeployedProduction
	}
	return nil
}

// Get reports the value of the task with the given key, false for unknown keys.
func (c Checklist) Get(key string) bool {
	if f := c.field(key); f != nil {
		return *f
	}
	return false
}

// Set updates the task with the given key. Unknown keys are ignored.
func (c *Checklist) Set(key string, done bool) {
	if f := c.field(key); f != nil {
		*f = done
	}
}

// Toggle flips the task with the given key.
func (c *Checklist) Toggle(key string) {
	c.Set(key, !c.Get(key))
}

func (c Checklist) Items() []ChecklistItem {
	items := make([]ChecklistItem, 0, len(ChecklistKeys))
	for _, key := range ChecklistKeys {
		items = append(items, ChecklistItem{
			Key:   key,
			Label: checklistLabels[key],
			Done:  c.Get(key),
		})
	}
	return items
}
