package main

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mawuli/field-survey/app"
	"github.com/mawuli/field-survey/config"
	"github.com/mawuli/field-survey/database"
	"github.com/mawuli/field-survey/httpx"
	"github.com/mawuli/field-survey/log"
	"github.com/mawuli/field-survey/routes"

	"github.com/go-playground/validator/v10"
)

func main() {
	cfg, err := config.ParseServerFlags(os.Args[1:])
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	if cfg.InitOperator != "" {
		user, pass, ok := strings.Cut(cfg.InitOperator, ":")
		if !ok || user == "" || pass == "" {
			log.Fatal("main.init_operator: expected user:password")
		}
		if err := httpx.InitOperator(db, user, pass); err != nil {
			log.Fatal("main.init_operator:", err)
		}
		log.Infof("operator account %q ready", user)
	}

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Validate:     validator.New(),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
