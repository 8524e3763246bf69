// Package dev implements the development mode of the serve command: a
// polling file watcher over the application root, a rescan of the view
// mapping tables when templates or the deployment descriptor change, and a
// WebSocket channel that tells connected browsers to reload.
package dev
