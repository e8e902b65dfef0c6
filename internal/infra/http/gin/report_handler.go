package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"shortify/internal/app/commands"
	"shortify/internal/app/dto"
	reportsapp "shortify/internal/app/handlers/reports"
	"shortify/internal/app/projection"
	"shortify/internal/app/queries"
)

type ReportHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Volume   *projection.ReportVolume
	Logger   *slog.Logger
}

type submitReportRequest struct {
	Reason string `json:"reason"`
}

func (h ReportHandler) List(c *gin.Context) {
	result, err := queries.Ask[reportsapp.ListReportsQuery, dto.ReportCollection](c.Request.Context(), h.Queries, reportsapp.ListReportsQuery{})
	if err != nil {
		respondError(c, h.Logger, "reports list", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReportHandler) ListMine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	query := reportsapp.ListReportsByUserQuery{UserID: user.ID}
	result, err := queries.Ask[reportsapp.ListReportsByUserQuery, dto.ReportCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, "reports by user", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ReportHandler) ListByShort(c *gin.Context) {
	query := reportsapp.ListReportsByShortQuery{ShortID: c.Param("id")}
	result, err := queries.Ask[reportsapp.ListReportsByShortQuery, dto.ReportCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, "reports by short", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMine renders JSON null when the caller has not reported the short.
func (h ReportHandler) GetMine(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	query := reportsapp.GetReportQuery{ShortID: c.Param("id"), UserID: user.ID}
	report, err := queries.Ask[reportsapp.GetReportQuery, *dto.Report](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, "report get", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h ReportHandler) Submit(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reportsapp.SubmitReportCommand{
		ShortID: c.Param("id"),
		UserID:  user.ID,
		Reason:  req.Reason,
		Now:     time.Now().UTC(),
	}
	report, err := commands.Dispatch[reportsapp.SubmitReportCommand, dto.Report](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "report submit", err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h ReportHandler) Retract(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cmd := reportsapp.RetractReportCommand{
		ShortID: c.Param("id"),
		UserID:  user.ID,
		Now:     time.Now().UTC(),
	}
	report, err := commands.Dispatch[reportsapp.RetractReportCommand, dto.Report](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, "report retract", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// TopReported serves the report volume read model. Unavailable until
// the projection consumer is running.
func (h ReportHandler) TopReported(c *gin.Context) {
	if h.Volume == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report volume projection disabled"})
		return
	}
	n, err := strconv.Atoi(c.DefaultQuery("n", "10"))
	if err != nil || n <= 0 {
		n = 10
	}
	c.JSON(http.StatusOK, gin.H{"items": h.Volume.Top(n)})
}

var _ ReportHTTP = ReportHandler{}
