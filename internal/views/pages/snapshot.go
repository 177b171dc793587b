package pages

import (
	"costbook/internal/costing"
	"costbook/internal/workspace"
	"costbook/models"
)

// DashboardSnapshot carries everything the dashboard page shows.
type DashboardSnapshot struct {
	UserName    string
	Status      workspace.Status
	Metrics     models.Metrics
	Tables      models.TableSet
	Issues      []costing.Issue
	Message     string
	MessageKind string
}
