package controllers

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/middleware"
	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("Error encoding response", "error", err)
	}
}

func session(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return sess, ok
}
