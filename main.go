//
// Blog
// ====
// A server-rendered blog: logged in users write articles, everybody logged in
// reads them, and only the author may edit or delete an article.
//
// Create a user and boot the server:
// ----------------------------------
// $ BLOG_DEV=1 go run . adduser -user alice
// $ BLOG_DEV=1 go run .
//
// Pages live under http://localhost:3333/articles, the JSON API under /api.
//
// Client requests:
// ----------------
// $ curl -d '{"username":"alice","password":"secret"}' http://localhost:3333/api/token
// {"token":"eyJ..."}
//
// $ curl -H "Authorization: Bearer eyJ..." -d '{"title":"Hello","body":"World"}' http://localhost:3333/api/articles
// {"id":1,"title":"Hello","body":"World","authorId":1,...,"author":{"id":1,"name":"alice","role":"owner"},"editable":true}
//
// $ curl -X DELETE -H "Authorization: Bearer eyJ..." http://localhost:3333/api/articles/1
//
// Passing -routes prints the generated route docs.
//
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/SergeyParamoshkin/blog/internal/article"
	"github.com/SergeyParamoshkin/blog/internal/config"
	"github.com/SergeyParamoshkin/blog/internal/identity"
	"github.com/SergeyParamoshkin/blog/internal/metrics"
	"github.com/SergeyParamoshkin/blog/internal/storage"
	"github.com/SergeyParamoshkin/blog/internal/user"
	"github.com/SergeyParamoshkin/blog/internal/web"
)

const ServiceName = "blog"

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      *config.Config
}

func main() {
	var (
		configPath = flag.String("config", "", "ini configuration `file`")
		routes     = flag.Bool("routes", false, "Generate router documentation")
	)

	var addUserFlags = flag.NewFlagSet("adduser", flag.ExitOnError)
	var addUserConfig = addUserFlags.String("config", "", "ini configuration `file`")
	var username = addUserFlags.String("user", "", "name of the user to create")

	if len(os.Args) > 1 && os.Args[1] == "adduser" {
		_ = addUserFlags.Parse(os.Args[2:])
		configPath = addUserConfig
	} else {
		flag.Parse()
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	cfg, err := config.Load(*configPath)
	if err != nil {
		sugar.Errorw("load config", "err", err)

		return
	}
	sugar.Infow("configuration loaded", "config", cfg.String())

	a := App{
		sugarLogger: sugar,
		config:      cfg,
	}

	db, err := storage.Open(cfg.Database.URL)
	if err != nil {
		sugar.Errorw("open database", "err", err)

		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			sugar.Errorw("close database", "err", err)
		}
	}()

	users := user.NewService(storage.NewUsers(db))

	if addUserFlags.Parsed() {
		if err := addUser(users, *username); err != nil {
			sugar.Errorw("add user", "user", *username, "err", err)
		}

		return
	}

	rec, exporter, err := metrics.New(ServiceName)
	if err != nil {
		sugar.Errorw("failed to initialize prometheus exporter", "err", err)

		return
	}

	sessionManager := scs.New()
	sessionManager.Store = db.SessionStore()
	sessionManager.Lifetime = cfg.Auth.SessionLifetime
	sessionManager.Cookie.Name = ServiceName + "_session"
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = !cfg.Dev

	sessions := identity.NewSessions(sessionManager)
	tokens := identity.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	h, err := web.New(
		article.NewService(storage.NewArticles(db)),
		users,
		sessions,
		tokens,
		sugar,
		rec,
	)
	if err != nil {
		sugar.Errorw("load templates", "err", err)

		return
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(rec.Middleware)
	r.Use(sessionManager.LoadAndSave)
	r.Use(identity.Middleware(sugar, sessions, tokens))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Debugw("ping")
		_, err := w.Write([]byte("pong"))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})

	FileServer(r, "/static", web.Static())
	h.Routes(r)

	if *routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/blog",
			Intro:       "Routes of the blog service.",
		}))

		return
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	a.serve(r, diagRouter)
}

// serve runs the application and diagnostics servers until SIGINT or SIGTERM.
func (a *App) serve(app, diag http.Handler) {
	servers := []*http.Server{
		{Addr: a.config.Server.Addr, Handler: app, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second},
		{Addr: a.config.Server.DiagAddr, Handler: diag},
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for _, srv := range servers {
		srv := srv
		go func() {
			a.sugarLogger.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.sugarLogger.Errorw(err.Error(), "addr", srv.Addr)
				stop <- os.Interrupt
			}
		}()
	}

	<-stop
	a.sugarLogger.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			a.sugarLogger.Errorw("shutdown", "addr", srv.Addr, "err", err)
		}
	}
}

func addUser(users *user.Service, name string) error {
	if name == "" {
		return errors.New("missing -user")
	}

	fmt.Printf("password for user %s: ", name)
	pass1, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	fmt.Printf("repeat password: ")
	pass2, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	if !bytes.Equal(pass1, pass2) {
		return errors.New("passwords don't match")
	}

	_, err = users.Register(context.Background(), name, string(pass1))

	return err
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

// Logger puts the sugared logger on the request context.
func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}
