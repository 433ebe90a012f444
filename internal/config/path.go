package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout   = "layout.html"
	TemplateList     = "list.html"
	TemplateEditor   = "editor.html"
	TemplateView     = "view.html"
	TemplateNotFound = "notfound.html"
	TemplateLogin    = "login.html"
)

const (
	LoginUrlPath       = "/auth/login"
	SSEUrlPath         = "/sse"
	RobotsUrlPath      = "/robots.txt"
	ThemeToggleUrlPath = "/theme/toggle"
)
