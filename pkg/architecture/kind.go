package architecture

import "github.com/agenticinfraops/infraviz/pkg/palette"

// Kind identifies the resource a node represents.
type Kind int

const (
	KindUsers Kind = iota
	KindGitHub
	KindEntraID
	KindStaticWebApp
	KindFunctionApp
	KindSQLDatabase
	KindAppInsights
	KindLogAnalytics
)

type kindStyle struct {
	name     string
	caption  string
	fill     string
	font     string
	shape    string
	category string
}

var kindStyles = map[Kind]kindStyle{
	KindUsers:        {"users", "Users", palette.Dark, palette.White, "ellipse", "onprem"},
	KindGitHub:       {"github", "GitHub", "#24292F", palette.White, "box", "onprem"},
	KindEntraID:      {"entra-id", "Entra ID", palette.Primary, palette.White, "box", "identity"},
	KindStaticWebApp: {"static-web-app", "Static Web App", palette.Primary, palette.White, "box", "web"},
	KindFunctionApp:  {"function-app", "Function App", palette.Warning, palette.Dark, "box", "compute"},
	KindSQLDatabase:  {"sql-database", "SQL Database", palette.Purple, palette.White, "cylinder", "database"},
	KindAppInsights:  {"app-insights", "Application Insights", palette.Accent, palette.White, "box", "devops"},
	KindLogAnalytics: {"log-analytics", "Log Analytics", palette.Secondary, palette.Dark, "box", "analytics"},
}

// String returns the kind's short name.
func (k Kind) String() string {
	if s, ok := kindStyles[k]; ok {
		return s.name
	}
	return "unknown"
}

// Category returns the resource category the kind belongs to.
func (k Kind) Category() string {
	return kindStyles[k].category
}

// Caption returns the small caption drawn above a node's label.
func (k Kind) Caption() string {
	return kindStyles[k].caption
}

// Fill returns the node fill color for the kind.
func (k Kind) Fill() string {
	return kindStyles[k].fill
}

func (k Kind) valid() bool {
	_, ok := kindStyles[k]
	return ok
}
