package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"shortify/internal/app/commands"
	"shortify/internal/app/dto"
	shortsapp "shortify/internal/app/handlers/shorts"
	"shortify/internal/app/queries"
)

// ShortHandler wires short commands and queries to HTTP.
type ShortHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createShortRequest struct {
	Caption  string `json:"caption"`
	MediaURL string `json:"mediaUrl"`
}

type updateShortRequest struct {
	Caption  string `json:"caption"`
	MediaURL string `json:"mediaUrl"`
}

func (h ShortHandler) List(c *gin.Context) {
	result, err := queries.Ask[shortsapp.ListShortsQuery, dto.ShortCollection](c.Request.Context(), h.Queries, shortsapp.ListShortsQuery{})
	if err != nil {
		respondError(c, h.Logger, "shorts list", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ShortHandler) ListByAuthor(c *gin.Context) {
	query := shortsapp.ListShortsByAuthorQuery{AuthorID: c.Param("id")}
	result, err := queries.Ask[shortsapp.ListShortsByAuthorQuery, dto.ShortCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, "shorts by author", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ShortHandler) ListByTag(c *gin.Context) {
	query := shortsapp.ListShortsByTagQuery{TagID: c.Param("tag")}
	result, err := queries.Ask[shortsapp.ListShortsByTagQuery, dto.ShortCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, "shorts by tag", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ShortHandler) Get(c *gin.Context) {
	query := shortsapp.GetShortQuery{ShortID: c.Param("id")}
	result, err := queries.Ask[shortsapp.GetShortQuery, dto.Short](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, "short get", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ShortHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createShortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := shortsapp.CreateShortCommand{
		AuthorID:        user.ID,
		Caption:         req.Caption,
		MediaURL:        req.MediaURL,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
		Now:             time.Now().UTC(),
	}
	short, err := commands.Dispatch[shortsapp.CreateShortCommand, dto.Short](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "short create", err)
		return
	}
	c.JSON(http.StatusCreated, short)
}

func (h ShortHandler) Update(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var req updateShortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := shortsapp.UpdateShortCommand{
		ShortID:  c.Param("id"),
		Caption:  req.Caption,
		MediaURL: req.MediaURL,
		Now:      time.Now().UTC(),
	}
	short, err := commands.Dispatch[shortsapp.UpdateShortCommand, dto.Short](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "short update", err)
		return
	}
	c.JSON(http.StatusOK, short)
}

func (h ShortHandler) Delete(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	cmd := shortsapp.DeleteShortCommand{ShortID: c.Param("id"), Now: time.Now().UTC()}
	short, err := commands.Dispatch[shortsapp.DeleteShortCommand, dto.Short](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "short delete", err)
		return
	}
	c.JSON(http.StatusOK, short)
}

var _ ShortHTTP = ShortHandler{}
