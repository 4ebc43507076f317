package handler

import (
	"net/http"

	"github.com/swaggo/swag"

	_ "nishtha/docs"
)

// Docs handles GET /v1/docs/doc.json
func Docs(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
