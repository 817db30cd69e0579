package handlers

import (
	"net/http"
	"sort"
)

// Health reports ok when every registered check passes and 503 otherwise.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(a.Checks))
	for name := range a.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := a.Checks[name](r); err != nil {
			a.Logger.Warn().Err(err).Str("check", name).Msg("health check failed")
			checks[name] = "unavailable"
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	a.json(w, code, map[string]any{"status": status, "checks": checks})
}
