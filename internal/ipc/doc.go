// Package ipc exposes the catalog service and daemon control over JSON-RPC
// on a Unix domain socket. The CLI is the only intended client; payloads
// reuse the api package DTOs so both ends agree on shapes.
package ipc
