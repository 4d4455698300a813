// Package ticket provides the business boundary for Helpdesk's support ticket
// triage system. It defines the Engine (the classify/fetch/draft state machine),
// the Provider interface (text completion backend), the Service (validation,
// run lifecycle, notification), and the domain models including the closed
// issue taxonomy.
package ticket
