package v1alpha1

import (
	"net/http"

	"github.com/docscanhq/docscan/pkg/version"
)

// GetInfo reports the build version.
func (h *ServiceHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}

// Health is the liveness endpoint.
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
