package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HLocation     = "Location"
	HIfNoneMatch  = "If-None-Match"
	HDisposition  = "Content-Disposition"

	CTypeCSS      = "text/css"
	CTypeHTML     = "text/html"
	CTypeJSON     = "application/json"
	CTypeText     = "text/plain; charset=utf-8"
	CTypeMarkdown = "text/markdown; charset=utf-8"
	CTypeEvents   = "text/event-stream"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieSessionID = "session-id"
	CookieFlash     = "flash"
)
