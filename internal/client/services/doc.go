// Package services contains application services for the portal client:
// user, group, and file administration, the employee-facing file list with
// the transient open-in-viewer flow, and bulk import/export. Services sit
// between the TUI and the API client, owning client-side preconditions
// (group selection required) so invalid submissions never reach the network.
package services
