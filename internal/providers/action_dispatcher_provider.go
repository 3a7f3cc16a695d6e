package providers

import (
	"net/http"
	"sync"

	"e84consent/internal/models"

	json "github.com/goccy/go-json"
)

const maxActionBodySize = 64 << 10 // 64 KB

// ActionDispatcher routes POSTed forms to the handler registered for their
// "action" field.
type ActionDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]http.Handler
	logger   Logger
}

func NewActionDispatcher(logger Logger) *ActionDispatcher {
	return &ActionDispatcher{
		handlers: make(map[string]http.Handler),
		logger:   logger,
	}
}

func (ad *ActionDispatcher) Register(action string, handler http.Handler) {
	ad.mu.Lock()
	defer ad.mu.Unlock()
	ad.handlers[action] = handler
}

func (ad *ActionDispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxActionBodySize)
	if err := r.ParseForm(); err != nil {
		WriteAjax(w, http.StatusBadRequest, models.AjaxResponse{Success: false})
		return
	}

	action := r.PostFormValue("action")
	ad.mu.RLock()
	handler, ok := ad.handlers[action]
	ad.mu.RUnlock()
	if !ok {
		ad.logger.Debugf(TypePost, "Unknown action %q", action)
		WriteAjax(w, http.StatusBadRequest, models.AjaxResponse{Success: false})
		return
	}
	handler.ServeHTTP(w, r)
}

func WriteAjax(w http.ResponseWriter, status int, resp models.AjaxResponse) {
	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
