package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"shortify/internal/app/commands"
	"shortify/internal/app/dto"
	tagsapp "shortify/internal/app/handlers/tags"
	"shortify/internal/app/queries"
)

type TagHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createTagRequest struct {
	Text string `json:"text"`
}

type renameTagRequest struct {
	OldText string `json:"oldText"`
	NewText string `json:"newText"`
}

func (h TagHandler) List(c *gin.Context) {
	result, err := queries.Ask[tagsapp.ListTagsQuery, dto.TagCollection](c.Request.Context(), h.Queries, tagsapp.ListTagsQuery{})
	if err != nil {
		respondError(c, h.Logger, "tags list", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TagHandler) ListByShort(c *gin.Context) {
	query := tagsapp.ListTagsByShortQuery{ShortID: c.Param("id")}
	result, err := queries.Ask[tagsapp.ListTagsByShortQuery, dto.TagCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, "tags by short", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h TagHandler) Create(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := tagsapp.CreateTagCommand{
		ShortID: c.Param("id"),
		Text:    req.Text,
		Now:     time.Now().UTC(),
	}
	tag, err := commands.Dispatch[tagsapp.CreateTagCommand, dto.Tag](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "tag create", err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h TagHandler) Rename(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var req renameTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := tagsapp.RenameTagCommand{
		OldText: req.OldText,
		NewText: req.NewText,
		Now:     time.Now().UTC(),
	}
	status, err := commands.Dispatch[tagsapp.RenameTagCommand, string](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "tag rename", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h TagHandler) RenameOnShort(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var req renameTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := tagsapp.RenameShortTagCommand{
		ShortID: c.Param("id"),
		OldText: req.OldText,
		NewText: req.NewText,
		Now:     time.Now().UTC(),
	}
	status, err := commands.Dispatch[tagsapp.RenameShortTagCommand, string](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "tag rename on short", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h TagHandler) Delete(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	cmd := tagsapp.DeleteTagCommand{Text: c.Param("tag"), Now: time.Now().UTC()}
	status, err := commands.Dispatch[tagsapp.DeleteTagCommand, string](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "tag delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h TagHandler) Clear(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	cmd := tagsapp.ClearShortTagsCommand{ShortID: c.Param("id"), Now: time.Now().UTC()}
	status, err := commands.Dispatch[tagsapp.ClearShortTagsCommand, string](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "tags clear", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h TagHandler) Remove(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	cmd := tagsapp.RemoveShortTagCommand{
		ShortID: c.Param("id"),
		Text:    c.Param("tag"),
		Now:     time.Now().UTC(),
	}
	status, err := commands.Dispatch[tagsapp.RemoveShortTagCommand, string](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "tag remove", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

var _ TagHTTP = TagHandler{}
