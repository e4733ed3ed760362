package normalize

import (
	"github.com/montanaflynn/stats"
	"github.com/ukaji3/sheetflat-go/pkg/sheetflat/models"
)

// ClassifyColumn tags a column Metric when every non-null cell parses as a
// number, Dimension otherwise. A column without any value is a Metric.
func ClassifyColumn(cells []models.Cell) models.ColumnRole {
	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		if _, ok := c.Float(); !ok {
			return models.RoleDimension
		}
	}
	return models.RoleMetric
}

// Classify returns the role of every column of nb, in header order.
func Classify(nb models.NormalizedBlock) []models.ColumnRole {
	roles := make([]models.ColumnRole, len(nb.Headers))
	for i := range nb.Headers {
		roles[i] = ClassifyColumn(nb.Column(i))
	}
	return roles
}

// SplitRoles groups header labels by role, keeping header order.
func SplitRoles(headers []string, roles []models.ColumnRole) (dimensions, metrics []string) {
	dimensions, metrics = []string{}, []string{}
	for i, h := range headers {
		if i < len(roles) && roles[i] == models.RoleMetric {
			metrics = append(metrics, h)
		} else {
			dimensions = append(dimensions, h)
		}
	}
	return dimensions, metrics
}

// Profile summarizes each column of a classified block.
func Profile(nb models.NormalizedBlock) []models.ColumnProfile {
	roles := nb.Roles
	if len(roles) != len(nb.Headers) {
		roles = Classify(nb)
	}

	profiles := make([]models.ColumnProfile, len(nb.Headers))
	for i, label := range nb.Headers {
		p := models.ColumnProfile{Label: label, Role: roles[i]}

		var values []float64
		for _, c := range nb.Column(i) {
			if c.IsNull() {
				continue
			}
			p.NonNull++
			if v, ok := c.Float(); ok {
				values = append(values, v)
			}
		}

		if p.Role == models.RoleMetric && len(values) > 0 {
			if v, err := stats.Min(values); err == nil {
				p.Min = &v
			}
			if v, err := stats.Max(values); err == nil {
				p.Max = &v
			}
			if v, err := stats.Mean(values); err == nil {
				p.Mean = &v
			}
		}
		profiles[i] = p
	}
	return profiles
}
