// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle (load the graph
// description, compile it, report, optionally simulate and serve), decoupled
// from any specific entrypoint like a CLI.
package app
