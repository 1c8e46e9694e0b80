// Package cli provides the interactive FoodShare command-line client.
//
// It wires configuration, local storage, the session store, the HTTP API
// client, and an interactive REPL that supports online/offline operation.
// Typical flow: prompt for credentials, start a background connectivity
// watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout with a persisted session
//   - Guided listing creation via the step-by-step wizard (with drafts)
//   - Browse listings, request pickups, resolve requests
//   - Messaging between donors and recipients
//   - Admin statistics and moderation
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
