package architecture

import "github.com/agenticinfraops/infraviz/pkg/dot"

// StaticWebAppDesign is the proposed Static Web App + Azure SQL architecture.
func StaticWebAppDesign() *Diagram {
	return &Diagram{
		Title:     "Static Web App with Azure SQL",
		Filename:  "03-des-diagram",
		Direction: "LR",
		GraphAttrs: dot.Attrs{
			"fontsize": "14",
			"bgcolor":  "white",
			"pad":      "0.5",
			"splines":  "ortho",
		},
		Nodes: []Node{
			{ID: "users", Kind: KindUsers, Label: "Internal\nUsers"},
			{ID: "aad", Kind: KindEntraID, Label: "Azure AD\n(Authentication)"},
		},
		Clusters: []Cluster{{
			Label: "Resource Group: rg-static-webapp-test-dev",
			Clusters: []Cluster{
				{Label: "Frontend & API", Nodes: []Node{
					{ID: "swa", Kind: KindStaticWebApp, Label: "Static Web App\n(Free Tier)"},
					{ID: "func", Kind: KindFunctionApp, Label: "Azure Functions\n(Integrated)"},
				}},
				{Label: "Data Tier", Nodes: []Node{
					{ID: "sql", Kind: KindSQLDatabase, Label: "Azure SQL\n(S0 - 10 DTU)"},
				}},
				{Label: "Monitoring", Nodes: []Node{
					{ID: "insights", Kind: KindAppInsights, Label: "Application\nInsights"},
					{ID: "logs", Kind: KindLogAnalytics, Label: "Log Analytics\n(Free Tier)"},
				}},
			},
		}},
		Edges: []Edge{
			{From: "users", To: "aad", Label: "HTTPS"},
			{From: "aad", To: "swa", Label: "Auth Token"},
			{From: "swa", To: "func", Label: "API Calls"},
			{From: "func", To: "sql", Label: "Managed Identity"},
			monitoring("swa", "insights"),
			monitoring("func", "insights"),
			monitoring("insights", "logs"),
		},
	}
}

// StaticWebAppAsBuilt is the deployed Static Web App infrastructure.
func StaticWebAppAsBuilt() *Diagram {
	return &Diagram{
		Title:     "Static Web App - As-Built",
		Filename:  "07-ab-diagram",
		Direction: "LR",
		GraphAttrs: dot.Attrs{
			"fontsize":  "14",
			"bgcolor":   "white",
			"pad":       "0.5",
			"splines":   "ortho",
			"label":     "As-Built Architecture - static-webapp-test\nDeployed: 2024-12-17 | Region: swedencentral",
			"labelloc":  "t",
			"fontcolor": "#333333",
		},
		Nodes: []Node{
			{ID: "users", Kind: KindUsers, Label: "Internal Users\n(10 users)"},
			{ID: "github", Kind: KindGitHub, Label: "GitHub\n(CI/CD)"},
			{ID: "aad", Kind: KindEntraID, Label: "Azure AD\n(Authentication)"},
		},
		Clusters: []Cluster{{
			Label: "rg-static-webapp-test-dev\nswedencentral",
			Clusters: []Cluster{
				{Label: "Frontend & API Layer", Nodes: []Node{
					{ID: "swa", Kind: KindStaticWebApp, Label: "stapp-static-webapp-test-dev\nFree Tier"},
					{ID: "func", Kind: KindFunctionApp, Label: "Integrated Functions\nConsumption"},
				}},
				{Label: "Data Layer", Nodes: []Node{
					{ID: "sql", Kind: KindSQLDatabase, Label: "sql-staticweba-dev-xxx\nS0 (10 DTU)"},
					{ID: "sqldb", Kind: KindSQLDatabase, Label: "sqldb-static-webapp-test-dev\n250GB max"},
				}},
				{Label: "Monitoring & Logging", Nodes: []Node{
					{ID: "insights", Kind: KindAppInsights, Label: "appi-static-webapp-test-dev\nBasic"},
					{ID: "logs", Kind: KindLogAnalytics, Label: "log-static-webapp-test-dev\n30-day retention"},
				}},
			},
		}},
		Edges: []Edge{
			{From: "users", To: "aad", Label: "HTTPS"},
			{From: "aad", To: "swa", Label: "Token"},
			{From: "github", To: "swa", Label: "Deploy", Style: "dashed"},
			{From: "swa", To: "func", Label: "API"},
			{From: "func", To: "sql", Label: "AAD Auth"},
			{From: "sql", To: "sqldb", Undirected: true},
			monitoring("swa", "insights"),
			monitoring("func", "insights"),
			monitoring("sql", "insights"),
			monitoring("insights", "logs"),
		},
	}
}

func monitoring(from, to string) Edge {
	return Edge{From: from, To: to, Style: "dashed", Color: "gray"}
}
