package registry

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/veriflow-io/veriflow/internal/transport"
	"github.com/veriflow-io/veriflow/internal/util"
	"github.com/veriflow-io/veriflow/pkg/log"
)

// Shared library extensions recognized as loadable engine plugins
var pluginExts = util.SetOf(".so", ".dll", ".dylib")

// Discover walks dir recursively and registers every engine it finds.
// Shared libraries load as in-process plugins; executable files run as
// subprocess engines. A candidate that fails its handshake is logged and
// skipped, since one broken engine must not take down the rest of the
// catalog. Colliding instruction IDs still abort: that is a configuration
// error no amount of skipping can make safe
func (r *Registry) Discover(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		tr, err := openCandidate(path, d)
		if err != nil {
			slog.Warn("Skipping engine candidate", log.Path(path), log.Error(err))
			return nil
		}
		if tr == nil {
			return nil
		}
		if err := r.Add(ctx, tr); err != nil {
			_ = tr.Close()
			if errors.Is(err, ErrDuplicateInstruction) {
				return err
			}
			slog.Warn("Skipping engine", log.Path(path), log.Error(err))
		}
		return nil
	})
}

// openCandidate maps a directory entry to a transport, or nil when the
// file is not an engine candidate at all
func openCandidate(path string, d fs.DirEntry) (transport.Transport, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if pluginExts.Contains(ext) {
		return transport.OpenPlugin(path)
	}
	info, err := d.Info()
	if err != nil {
		return nil, err
	}
	if info.Mode()&0o111 != 0 {
		return transport.NewProcess(path, transport.ModeArgument), nil
	}
	return nil, nil
}
