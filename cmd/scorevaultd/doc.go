// Command scorevaultd runs the scorevault daemon: it opens the catalog
// database and library directory, takes the singleton daemon lock, and
// serves the JSON-RPC socket until it receives SIGINT, SIGTERM, or a
// shutdown request over IPC.
package main
