package chat

import (
	"strings"

	"github.com/rcliao/helios/internal/model"
)

// ChartsData re-projects metrics for chart rendering.
type ChartsData struct {
	ByType              *model.Counter            `json:"by_type"`
	ByStatus            *model.Counter            `json:"by_status"`
	ByAssignee          *model.Counter            `json:"by_assignee"`
	ByAssigneeAndStatus map[string]*model.Counter `json:"by_assignee_and_status"`
}

// BuildCharts derives chart data from categorized project data.
func BuildCharts(data *model.ProjectData) ChartsData {
	byType := model.NewCounter()
	byType.Add("Epics", len(data.Epics))
	byType.Add("Stories", len(data.Stories))
	byType.Add("Tasks", len(data.Tasks))

	nested := make(map[string]*model.Counter)
	m := data.Metrics.StatusAssigneeMatrix
	for _, k := range m.Keys() {
		assignee, status, _ := strings.Cut(k, "|")
		c, ok := nested[assignee]
		if !ok {
			c = model.NewCounter()
			nested[assignee] = c
		}
		c.Add(status, m.Get(k))
	}

	return ChartsData{
		ByType:              byType,
		ByStatus:            orEmpty(data.Metrics.StatusCounts),
		ByAssignee:          orEmpty(data.Metrics.AssigneeCounts),
		ByAssigneeAndStatus: nested,
	}
}

func orEmpty(c *model.Counter) *model.Counter {
	if c == nil {
		return model.NewCounter()
	}
	return c
}
