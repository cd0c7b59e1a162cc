package core

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// pageData is shared by every storefront template.
type pageData struct {
	Catalog   *Catalog
	View      ViewState
	SignedIn  bool
	CSRFToken string
	Form      FormView
	SignUp    string
}

// NewWebRouter constructs the storefront engine serving the landing page and sign-in flow.
func NewWebRouter(cfg Config, store sessions.Store, auth AuthClient, catalog *Catalog) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(template.Must(template.New("").Funcs(template.FuncMap{
		"overlay": func(name string) Overlay {
			for o, n := range overlayNames {
				if n == name {
					return o
				}
			}
			return OverlayNone
		},
	}).ParseFS(templatesFS, "templates/*.tmpl")))

	r.Use(RequestIDMiddleware())
	r.Use(SessionMiddleware(cfg, store))
	r.Use(CSRFMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	// newForm binds a sign-in form to this request's session cookie.
	newForm := func(c *gin.Context) (*SignInForm, *CookieSessionStore, *RedirectRecorder) {
		slot := NewCookieSessionStore(cfg, sessionFrom(c), c.Request, c.Writer)
		nav := &RedirectRecorder{}
		return NewSignInForm(auth, slot, nav), slot, nav
	}

	page := func(c *gin.Context, slot SessionStore, form *SignInForm) pageData {
		_, signedIn := slot.Token()
		return pageData{
			Catalog:   catalog,
			SignedIn:  signedIn,
			CSRFToken: c.GetString("csrf_token"),
			Form:      form.View(),
			SignUp:    SignUpPath,
		}
	}

	r.GET("/", func(c *gin.Context) {
		form, slot, nav := newForm(c)
		view := ParseViewState(c.Request.URL.Query(), catalog)
		if view.IsOpen(OverlaySignIn) && form.Bootstrap() {
			c.Redirect(http.StatusSeeOther, nav.Target())
			return
		}
		data := page(c, slot, form)
		data.View = view
		c.HTML(http.StatusOK, "landing", data)
	})

	r.GET(SignInPath, func(c *gin.Context) {
		form, slot, nav := newForm(c)
		if form.Bootstrap() {
			c.Redirect(http.StatusSeeOther, nav.Target())
			return
		}
		c.HTML(http.StatusOK, "signin", page(c, slot, form))
	})

	r.POST(SignInPath, func(c *gin.Context) {
		form, slot, nav := newForm(c)
		creds := Credentials{
			Email:    strings.TrimSpace(c.PostForm("email")),
			Password: c.PostForm("password"),
		}
		if _, err := form.Submit(c.Request.Context(), creds); errors.Is(err, ErrSubmitInProgress) {
			c.String(http.StatusConflict, err.Error())
			return
		}
		if target := nav.Target(); target != "" {
			c.Redirect(http.StatusSeeOther, target)
			return
		}
		c.HTML(http.StatusOK, "signin", page(c, slot, form))
	})

	r.GET(AfterLoginPath, func(c *gin.Context) {
		form, slot, _ := newForm(c)
		if _, ok := slot.Token(); !ok {
			c.Redirect(http.StatusSeeOther, SignInPath)
			return
		}
		c.HTML(http.StatusOK, "afterlogin", page(c, slot, form))
	})

	r.POST("/signout", func(c *gin.Context) {
		_, slot, _ := newForm(c)
		if err := slot.ClearToken(); err != nil {
			log.Printf("clear token failed request_id=%s: %v", c.GetString("request_id"), err)
			c.String(http.StatusInternalServerError, "failed to sign out")
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	})

	return r
}
