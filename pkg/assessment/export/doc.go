// Package export writes assessments as JSON or CSV. The CLI export command
// and the retention archiver use it.
package export
