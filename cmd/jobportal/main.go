package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-jobportal-client/apiclient"
	"github.com/jrsteele09/go-jobportal-client/auth"
	"github.com/jrsteele09/go-jobportal-client/internal/config"
	applog "github.com/jrsteele09/go-jobportal-client/internal/log"
	"github.com/jrsteele09/go-jobportal-client/internal/telemetry"
	"github.com/jrsteele09/go-jobportal-client/portal"
	"github.com/jrsteele09/go-jobportal-client/token"
	"github.com/jrsteele09/go-jobportal-client/token/filestore"
	"github.com/jrsteele09/go-jobportal-client/token/memstore"
	"github.com/jrsteele09/go-jobportal-client/token/redisstore"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "path to a jobportal.yaml config file")
	quiet := flag.Bool("quiet", false, "do not print the banner")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(*configPath, *quiet, flag.Args()); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(configPath string, quiet bool, args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !quiet {
		displayAppname(c.GetAppName())
	}
	logger := applog.New(c.GetEnv(), c.GetLogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.GetTracingEnabled() {
		shutdown, err := telemetry.Setup(ctx, c.GetAppName(), c.GetOTLPEndpoint(), c.GetOTLPInsecure(), logger)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				logger.Warn().Err(err).Msg("trace flush failed")
			}
		}()
	}

	a, err := newApp(ctx, c, logger)
	if err != nil {
		return err
	}
	defer a.close()

	return a.dispatch(ctx, args[0], args[1:])
}

type app struct {
	api     *apiclient.Client
	session *auth.Service
	portal  *portal.Client
	logger  zerolog.Logger
	closers []func()
}

func newApp(ctx context.Context, c config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{logger: logger}

	kv, err := a.openStore(ctx, c)
	if err != nil {
		return nil, err
	}
	store := token.NewStore(kv, token.WithLogger(logger))

	a.api, err = apiclient.New(c.GetBaseURL(), store,
		apiclient.WithTimeout(c.GetRequestTimeout()),
		apiclient.WithRefreshTimeout(c.GetRefreshTimeout()),
		apiclient.WithUserAgent(c.GetUserAgent()),
		apiclient.WithTracing(c.GetTracingEnabled()),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	a.session, err = auth.New(a.api, auth.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.session.Close)
	a.session.OnLogout(func(cause error) {
		logger.Warn().Err(cause).Msg("session expired, log in again")
	})

	a.portal = portal.New(a.api)
	return a, nil
}

func (a *app) openStore(ctx context.Context, c config.Config) (token.KV, error) {
	switch c.GetStoreBackend() {
	case config.StoreBackendMemory:
		return memstore.New(), nil
	case config.StoreBackendRedis:
		client, err := redisstore.Dial(ctx, c.GetRedisAddr(), c.GetRedisPassword(), c.GetRedisDB())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return redisstore.New(client, redisstore.WithPrefix(c.GetRedisPrefix())), nil
	default:
		key, err := c.GetStoreKey()
		if err != nil {
			return nil, err
		}
		var options []filestore.Option
		if key != nil {
			options = append(options, filestore.WithKey(key))
		}
		return filestore.OpenOrMemory(c.GetStorePath(), a.logger, options...), nil
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: jobportal [-config file] [-quiet] <command> [flags]\n\ncommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-22s %s\n", cmd.name, cmd.help)
	}
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}
