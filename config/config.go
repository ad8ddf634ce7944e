package config

import (
	"errors"
	"flag"
	"net"
	"regexp"
	"strconv"
	"time"
)

// Config carries the settings of both binaries; each flag set only fills
// the fields it owns.
type Config struct {
	// server
	Addr         string
	DBUrl        string
	TokenSecret  string
	TokenTTL     time.Duration
	InitOperator string

	// field client
	LocalDB      string
	APIUrl       string
	SyncInterval time.Duration
	ProbeTimeout time.Duration
	Format       string
	SurveyID     string

	Debug bool
}

// ParseServerFlags reads the API server configuration from args.
func ParseServerFlags(args []string) (cfg Config, err error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var host string
	fs.StringVar(&host, "host", "0.0.0.0", "listen host name")
	var port uint
	fs.UintVar(&port, "port", 8080, "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", "fieldsurvey.sqlite", "path to SQLite3 DB file")
	fs.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	var ttl uint
	fs.UintVar(&ttl, "token-ttl", 3600, "token TTL in seconds")
	fs.StringVar(&cfg.InitOperator, "init-operator", "", "create an operator account at startup (user:password)")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")

	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

// ParseFieldFlags reads the field client configuration; args are the
// arguments after the subcommand name.
func ParseFieldFlags(args []string) (cfg Config, err error) {
	fs := flag.NewFlagSet("field", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDB, "local-db", "drafts.sqlite", "path to the local draft store file")
	fs.StringVar(&cfg.APIUrl, "api-url", "http://localhost:8080/api", "base URL of the survey API")
	fs.DurationVar(&cfg.SyncInterval, "sync-interval", time.Minute, "periodic sync interval")
	fs.DurationVar(&cfg.ProbeTimeout, "probe-timeout", 3*time.Second, "availability probe timeout")
	fs.StringVar(&cfg.Format, "format", "csv", "export format (csv or json)")
	fs.StringVar(&cfg.SurveyID, "id", "", "survey id")
	fs.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")

	err = fs.Parse(args)
	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
