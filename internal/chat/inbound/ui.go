package inbound

import (
	_ "embed"
	"net/http"

	"github.com/jvcl/datachat/internal/pkg/pkgrouter"
)

//go:embed index.html
var indexPage []byte

// registerUI serves the single-page chat UI. The page is static HTML
// that talks to the JSON API.
func registerUI(r *pkgrouter.Router) {
	r.Handle(http.MethodGet, "/ui", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(indexPage)
	}))
}
