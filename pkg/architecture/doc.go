// Package architecture describes Azure solution architectures as clustered
// node/edge diagrams and converts them to Graphviz graphs.
//
// A [Diagram] mirrors the cluster/node/edge vocabulary architects already use
// when sketching a deployment: resources of a [Kind] (static web app,
// function app, SQL database...) grouped into nested clusters such as a
// resource group and its tiers, connected by labelled edges. [Diagram.ToGraph]
// assigns each kind a fill color, shape and category caption and emits the
// clusters as nested Graphviz subgraphs.
//
// Two literal datasets ship with the package: [StaticWebAppDesign] is the
// proposed architecture produced during design, [StaticWebAppAsBuilt] the
// deployed infrastructure documented after deployment.
package architecture
