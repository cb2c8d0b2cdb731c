package variations

import (
	"errors"
	"net/http"

	"github.com/2beens/gymvariations/internal/telemetry/tracing"
	"github.com/2beens/gymvariations/pkg"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{
		registry: registry,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.variations.list")
	defer span.End()

	pkg.WriteJSONResponse(w, handler.registry.Templates(), http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.variations.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("id", id))

	tpl, err := handler.registry.GetTemplate(id)
	if errors.Is(err, ErrTemplateNotFound) {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "get template failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponse(w, tpl, http.StatusOK)
}
