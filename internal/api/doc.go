// Package api defines the transport-friendly representations of catalog
// entities and the service façade the IPC surface calls into. File payloads
// expose the derived hash identifier and never the row's primary key.
package api
