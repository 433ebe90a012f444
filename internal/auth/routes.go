package auth

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/thread-drafts/internal/config"
	"github.com/debemdeboas/thread-drafts/internal/model"
	"github.com/debemdeboas/thread-drafts/internal/session"
)

// RegisterGateRoutes registers the login page and its form handler.
func RegisterGateRoutes(mux *http.ServeMux, gate *PasswordGate, files fs.FS) {
	tmpl, err := template.ParseFS(
		files,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplateLogin,
	)
	if err != nil {
		authLogger.Fatal().Err(err).Msg("Error loading login template")
		return
	}

	mux.HandleFunc("GET "+config.LoginUrlPath, LoginPageHandler(gate, tmpl))
	mux.HandleFunc("POST "+config.LoginUrlPath, LoginSubmitHandler(gate))
}

// LoginPageHandler serves the password form, or sends already authenticated visitors home.
func LoginPageHandler(gate *PasswordGate, tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := zerolog.Ctx(r.Context())

		if gate.IsAuthenticated(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		data := struct {
			*model.PageData
		}{
			PageData: model.NewPageData(w, r),
		}

		w.Header().Set(config.HCType, config.CTypeHTML)
		if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
			l.Error().Err(err).Msg("Failed to render login template")
			http.Error(w, config.ErrInternalServer, http.StatusInternalServerError)
		}
	}
}

// LoginSubmitHandler checks the password. A wrong one flashes an error and shows an empty
// form again; there is no lockout.
func LoginSubmitHandler(gate *PasswordGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := zerolog.Ctx(r.Context())

		if !gate.Check(r.FormValue("password")) {
			l.Info().Msg("Rejected gate password")
			session.SetFlash(w, session.FlashError, config.ErrInvalidPassword)
			http.Redirect(w, r, config.LoginUrlPath, http.StatusSeeOther)
			return
		}

		if err := gate.sleep(r.Context(), gate.cfg.Delay()); err != nil {
			return
		}

		gate.Grant(w, r)
		session.SetFlash(w, session.FlashSuccess, config.MsgAccessGranted)
		l.Info().Msg("Gate opened")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
