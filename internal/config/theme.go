package config

const (
	LightTheme string = "light-theme"
	DarkTheme  string = "dark-theme"

	LightThemeIcon string = "☀"
	DarkThemeIcon  string = "☾"

	DefaultTheme string = DarkTheme

	CookieTheme = "theme"
)
