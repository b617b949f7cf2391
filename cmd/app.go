package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/llehouerou/folderplay/internal/config"
	"github.com/llehouerou/folderplay/internal/errmsg"
	"github.com/llehouerou/folderplay/internal/library"
	"github.com/llehouerou/folderplay/internal/logging"
	"github.com/llehouerou/folderplay/internal/progress"
	"github.com/llehouerou/folderplay/internal/state"
	"github.com/llehouerou/folderplay/internal/state/boltstore"
	"github.com/llehouerou/folderplay/internal/state/redisstore"
	"github.com/llehouerou/folderplay/internal/tracklist"
)

const boltFileName = "progress.bolt"

// app holds the long-lived services shared by the commands.
type app struct {
	cfg      *config.Config
	log      *logging.Logger
	db       *state.Manager
	progress *progress.Adapter
	library  *library.Library
	source   *tracklist.Source
	closers  []io.Closer
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errmsg.Error(errmsg.OpConfigLoad, err)
	}

	logger, err := logging.New(cfg.GetLogConfig(), os.Stderr)
	if err != nil {
		return nil, errmsg.Error(errmsg.OpInitialize, err)
	}
	a := &app{cfg: cfg, log: logger}

	if err := a.openStores(ctx); err != nil {
		a.Close()
		return nil, errmsg.Error(errmsg.OpStoreOpen, err)
	}

	seq, err := tracklist.ParseSequencer(cfg.CollationLanguage)
	if err != nil {
		a.Close()
		return nil, errmsg.Error(errmsg.OpInitialize, err)
	}
	a.source = tracklist.NewSource(seq)
	a.library = library.New(a.db, a.progress, a.source)
	return a, nil
}

func (a *app) openStores(ctx context.Context) error {
	storeCfg := a.cfg.GetStoreConfig()

	dbPath := storeCfg.Path
	if dbPath == "" {
		var err error
		if dbPath, err = state.DefaultDBPath(); err != nil {
			return err
		}
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return err
	}
	a.db = db
	a.closers = append(a.closers, db)

	var progressStore state.ProgressStore
	switch storeCfg.Backend {
	case config.BackendBolt:
		path := storeCfg.BoltPath
		if path == "" {
			path = filepath.Join(filepath.Dir(dbPath), boltFileName)
		}
		s, err := boltstore.Open(path)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, s)
		progressStore = s
	case config.BackendRedis:
		s, err := redisstore.Connect(ctx, storeCfg.RedisAddr, storeCfg.RedisPassword, storeCfg.RedisDB)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, s)
		progressStore = s
	default:
		progressStore = db
	}

	a.log.Debug("stores opened",
		zap.String("db", dbPath),
		zap.String("progress_backend", storeCfg.Backend))
	a.progress = progress.NewAdapter(progressStore)
	return nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	errs = append(errs, a.log.Close())
	return errors.Join(errs...)
}

// withApp runs fn with an opened app and closes it afterwards.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
