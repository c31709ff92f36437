package server

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

const fsPrefix = "/fs/"

// Resolver maps a requested path to a file inside the allowed scope.
type Resolver interface {
	Resolve(p string) (string, error)
}

// AssetFileServer serves files from the scoped filesystem to the webview
// under /fs/. Everything else is left to the embedded assets.
type AssetFileServer struct {
	resolver Resolver
	log      *zap.Logger
}

func NewAssetFileServer(resolver Resolver, log *zap.Logger) *AssetFileServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &AssetFileServer{resolver: resolver, log: log}
}

func (h *AssetFileServer) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	if !strings.HasPrefix(req.URL.Path, fsPrefix) || h.resolver == nil {
		res.WriteHeader(http.StatusNotFound)
		return
	}
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		res.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	requested := strings.TrimPrefix(req.URL.Path, fsPrefix)
	if requested == "" {
		res.WriteHeader(http.StatusBadRequest)
		return
	}

	fullPath, err := h.resolver.Resolve(requested)
	if err != nil {
		h.log.Debug("rejected asset request", zap.String("path", requested), zap.Error(err))
		res.WriteHeader(http.StatusForbidden)
		return
	}
	info, err := os.Stat(fullPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		res.WriteHeader(http.StatusNotFound)
		return
	case err != nil:
		res.WriteHeader(http.StatusInternalServerError)
		return
	case info.IsDir():
		res.WriteHeader(http.StatusNotFound)
		return
	}

	http.ServeFile(res, req, fullPath)
}
