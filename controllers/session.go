package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/utils"
)

// SessionController issues shopper session tokens
type SessionController struct{}

func NewSessionController() *SessionController {
	return &SessionController{}
}

// NewSession starts an anonymous shopper session
func (sc *SessionController) NewSession(w http.ResponseWriter, r *http.Request) {
	id := utils.NewSessionID()
	token, err := utils.GenerateJWT(id)
	if err != nil {
		zap.S().Errorw("Error generating session token", "error", err)
		http.Error(w, "Error generating session token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id": id,
		"token":      token,
	})
}
