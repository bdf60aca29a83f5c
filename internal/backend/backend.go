// Package backend opens the kv.Store selected by configuration.
package backend

import (
	"fmt"
	"net/http"

	"github.com/SergeyParamoshkin/voil/internal/config"
	"github.com/SergeyParamoshkin/voil/internal/kv"
	"github.com/SergeyParamoshkin/voil/internal/kv/kvhttp"
	"github.com/SergeyParamoshkin/voil/internal/kv/memory"
	"github.com/SergeyParamoshkin/voil/internal/kv/sqlite"
	"go.uber.org/zap"
)

// Open returns the configured store and a function releasing it.
func Open(c config.Config, log *zap.SugaredLogger) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch c.Backend {
	case config.BackendMemory:
		log.Warnw("using in-memory backend, articles are lost on restart")

		return memory.New(), noop, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(sqlite.Opts{Path: c.SQLitePath}, log)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	case config.BackendHTTP:
		cl, err := kvhttp.NewClient(c.KVURL, kvhttp.WithHTTPClient(&http.Client{Timeout: c.KVTimeout}))
		if err != nil {
			return nil, nil, err
		}
		log.Infow("using remote kv backend", "url", c.KVURL, "timeout", c.KVTimeout)

		return cl, noop, nil
	}

	return nil, nil, fmt.Errorf("backend: unknown backend %q", c.Backend)
}
