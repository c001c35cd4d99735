package wire

import (
	"yamdb/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTitle(r chi.Router, titleHandler *adaptor.TitleHandler) {
	r.Get("/titles", titleHandler.ListTitles)   // GET /api/v1/titles?genre=&category=&name=&year=
	r.Post("/titles", titleHandler.CreateTitle) // admin
	r.Get("/titles/{title_id}", titleHandler.GetTitle)
	r.Patch("/titles/{title_id}", titleHandler.UpdateTitle)
	r.Delete("/titles/{title_id}", titleHandler.DeleteTitle)
}
