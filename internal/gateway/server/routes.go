package server

import (
	"net/http"

	"modelpuzzle/internal/gateway/handler"
	"modelpuzzle/internal/gateway/middleware"
)

func NewMux(
	stateHandler *handler.StateHandler,
	chatHandler *handler.ChatHandler,
	importHandler *handler.SmartImportHandler,
	boardWSHandler *handler.BoardWSHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Project state
	mux.HandleFunc("/api/state/load", stateHandler.HandleLoad)
	mux.HandleFunc("/api/state/save", stateHandler.HandleSave)

	// Assistant
	mux.HandleFunc("/api/chat", chatHandler.HandleChat)
	mux.HandleFunc("/api/chat/append", chatHandler.HandleAppend)
	mux.HandleFunc("/api/chat/history", chatHandler.HandleHistory)

	// Smart import
	mux.HandleFunc("/api/smart-import/code", importHandler.HandleCode)
	mux.HandleFunc("/api/smart-import/document", importHandler.HandleDocument)
	mux.HandleFunc("/api/smart-import/upload", importHandler.HandleUpload)
	mux.HandleFunc("/api/smart-import/status", importHandler.HandleStatus)

	// Live board relay
	mux.HandleFunc("/ws/board", boardWSHandler.HandleBoardWS)

	return middleware.CORS(mux)
}
