package directory

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/apperr"
	"taskboard/internal/providers/directory"
)

type SearchResponse struct {
	People   []directory.Person `json:"people"`
	Failures []string           `json:"failures,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler interface {
	Search(c *gin.Context)
}

type handler struct {
	provider *directory.Provider
}

func NewHandler(provider *directory.Provider) Handler {
	return &handler{provider: provider}
}

// @Summary Search the people directory
// @Description Merges results from every configured source. Failing sources
// @Description are skipped; a partial result responds 207 with the failures
// @Description listed alongside the people found.
// @Tags Directory
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} SearchResponse
// @Success 207 {object} SearchResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/directory/search [get]
func (h *handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "q is required"})
		return
	}

	people, err := h.provider.Search(c.Request.Context(), query)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindPartialFailure {
			c.JSON(http.StatusMultiStatus, SearchResponse{People: people, Failures: appErr.Failures})
			return
		}
		c.JSON(apperr.HTTPStatus(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SearchResponse{People: people})
}
