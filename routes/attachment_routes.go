package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Harshvardhan-91/Gaming-website-sub000/controllers"
)

// RegisterAttachmentRoutes sets up attachment presign routes under /api
func RegisterAttachmentRoutes(r *mux.Router, controller *controllers.AttachmentController, auth func(http.Handler) http.Handler) {
	api := r.PathPrefix("/api/attachments").Subrouter()
	api.Use(auth)

	api.HandleFunc("/presign", controller.HandlePresignUpload).Methods("POST")
	api.HandleFunc("/presign-read", controller.HandlePresignDownload).Methods("POST")
}
