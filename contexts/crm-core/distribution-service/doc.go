// Package distributionservice implements lead distribution for the Leadflow CRM.
//
// The module owns the operator, source, lead, and contact tables and exposes
// HTTP command/query handlers plus an in-process job that refreshes operator
// load gauges for the metrics scrape.
package distributionservice
