package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Harshvardhan-91/Gaming-website-sub000/controllers"
)

// RegisterChatRoutes sets up the conversation command surface under
// /api. Every route requires an authenticated caller.
func RegisterChatRoutes(r *mux.Router, controller *controllers.ChatController, auth func(http.Handler) http.Handler) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth)

	api.HandleFunc("/conversations", controller.HandleListConversations).Methods("GET")
	api.HandleFunc("/conversations", controller.HandleCreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id}", controller.HandleGetConversation).Methods("GET")
	api.HandleFunc("/conversations/{id}", controller.HandleDeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id}/messages", controller.HandleSendMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}/read", controller.HandleMarkRead).Methods("PUT")
	api.HandleFunc("/conversations/{id}/close", controller.HandleCloseConversation).Methods("PUT")
	api.HandleFunc("/conversations/{id}/report", controller.HandleReportConversation).Methods("POST")
}
