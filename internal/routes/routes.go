// Package routes defines HTTP route patterns for the application.
package routes

import "github.com/debemdeboas/thread-drafts/internal/config"

const (
	Robots      = config.RobotsUrlPath
	Static      = config.StaticUrlPath
	ThemeToggle = "POST " + config.ThemeToggleUrlPath
	SSE         = "GET " + config.SSEUrlPath

	// Root renders whichever screen the session is on.
	Root = "GET /{$}"
)

// Navigation intents
const (
	NavNew  = "POST /nav/new"
	NavOpen = "POST /nav/open/{id}"
	NavEdit = "POST /nav/edit/{id}"
	NavBack = "POST /nav/back"
	NavList = "POST /nav/list"
)

// Editor intents
const (
	EditorStart  = "POST /editor/start"
	EditorUpdate = "POST /editor/update"
	EditorAdd    = "POST /editor/add"
	EditorRemove = "POST /editor/remove/{index}"
	EditorMove   = "POST /editor/move"
	EditorSave   = "POST /editor/save"
)

// Threads
const (
	ThreadDelete = "POST /threads/{id}/delete"
	ThreadExport = "GET /threads/{id}/export"
	ThreadTweet  = "GET /threads/{id}/tweets/{index}"
	ThreadImport = "POST /threads/import"
)
