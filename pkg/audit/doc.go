// Package audit provides RFC5424-formatted audit logging for authentication
// activity.
//
// Every terminal outcome of the authentication pipeline - success, failure,
// challenge - emits an Event. Events are written as syslog lines to the
// default logger and, when GATEHOUSE_AUDIT_DATABASE_URL is set, persisted to
// a messages table for later querying.
//
// Audit logging is enabled by default and can be switched off with
// GATEHOUSE_AUDIT_ENABLED=false.
package audit
