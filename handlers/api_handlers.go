package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classmap-server-go/db"
	"classmap-server-go/mapview"
	"classmap-server-go/models"
	"classmap-server-go/web"
)

const pageStateKey = "page_state"

// APIHandler holds what the page and API handlers need
type APIHandler struct {
	Snapshot *db.Snapshot
	Options  mapview.Options
	Meta     web.Meta
	BuildID  string
	logger   *zap.SugaredLogger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(snapshot *db.Snapshot, opts mapview.Options, meta web.Meta, buildID string, logger *zap.SugaredLogger) *APIHandler {
	return &APIHandler{
		Snapshot: snapshot,
		Options:  opts,
		Meta:     meta,
		BuildID:  buildID,
		logger:   logger,
	}
}

// stateResponse is returned by every state transition
type stateResponse struct {
	State    mapview.State    `json:"state"`
	Layout   mapview.Layout   `json:"layout"`
	Controls mapview.Controls `json:"controls"`
}

// loadPage rebuilds the visitor's page from their session.
func (h *APIHandler) loadPage(c *gin.Context) (*mapview.Page, *models.Dataset) {
	ds := h.Snapshot.Current()
	session := sessions.Default(c)

	var page *mapview.Page
	if raw, ok := session.Get(pageStateKey).(string); ok && raw != "" {
		var s mapview.State
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			h.logger.Warnf("Discarding unreadable page state: %v", err)
		} else {
			page = mapview.RestorePage(ds, h.Options, mapview.NewCanvas, s)
		}
	}
	if page == nil {
		page = mapview.NewPage(ds, h.Options, mapview.NewCanvas)
	}
	page.Mount()
	return page, ds
}

func (h *APIHandler) savePage(c *gin.Context, page *mapview.Page) error {
	raw, err := json.Marshal(page.State())
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(pageStateKey, string(raw))
	return session.Save()
}

func (h *APIHandler) respondState(c *gin.Context, page *mapview.Page) {
	if err := h.savePage(c, page); err != nil {
		h.logger.Errorf("Error saving page state: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save page state"})
		return
	}
	s := page.State()
	c.JSON(http.StatusOK, stateResponse{
		State:    s,
		Layout:   mapview.LayoutFor(s, h.Options),
		Controls: mapview.ControlsFor(s, h.Options),
	})
}

// --- Page ---

// Index handles GET /
func (h *APIHandler) Index(c *gin.Context) {
	page, ds := h.loadPage(c)
	if err := h.savePage(c, page); err != nil {
		h.logger.Errorf("Error saving page state: %v", err)
	}
	c.HTML(http.StatusOK, web.PageTemplate, web.NewPageView(h.Meta, ds, page, web.ModeServer, h.BuildID))
}

// --- Dataset Handlers ---

// GetSchools handles GET /api/schools
func (h *APIHandler) GetSchools(c *gin.Context) {
	c.JSON(http.StatusOK, h.Snapshot.Current().Schools())
}

// GetSchoolByID handles GET /api/schools/:schoolId
func (h *APIHandler) GetSchoolByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("schoolId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "School ID must be a number"})
		return
	}

	ds := h.Snapshot.Current()
	school, ok := ds.SchoolByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"school":   school,
		"students": ds.StudentsAt(id),
	})
}

// GetStudents handles GET /api/students
func (h *APIHandler) GetStudents(c *gin.Context) {
	c.JSON(http.StatusOK, h.Snapshot.Current().Students())
}

// GetMarkers handles GET /api/markers
func (h *APIHandler) GetMarkers(c *gin.Context) {
	c.JSON(http.StatusOK, mapview.BuildMarkers(h.Snapshot.Current()))
}

// GetRoster handles GET /api/roster
func (h *APIHandler) GetRoster(c *gin.Context) {
	c.JSON(http.StatusOK, mapview.BuildRoster(h.Snapshot.Current()))
}

// ExportRoster handles GET /api/roster.xlsx
func (h *APIHandler) ExportRoster(c *gin.Context) {
	buf := &bytes.Buffer{}
	if err := db.WriteRosterWorkbook(buf, h.Snapshot.Current()); err != nil {
		h.logger.Errorf("Error writing roster workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export roster"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="roster.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// --- State Handlers ---

// GetState handles GET /api/state
func (h *APIHandler) GetState(c *gin.Context) {
	page, _ := h.loadPage(c)
	h.respondState(c, page)
}

// SetViewport handles POST /api/viewport
func (h *APIHandler) SetViewport(c *gin.Context) {
	var v models.Viewport
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if !v.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Width and height must be positive"})
		return
	}

	page, _ := h.loadPage(c)
	page.Resize(v)
	h.respondState(c, page)
}

type flyRequest struct {
	SchoolID *int `json:"school_id" binding:"required"`
}

// FlyToSchool handles POST /api/fly
func (h *APIHandler) FlyToSchool(c *gin.Context) {
	var req flyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	page, _ := h.loadPage(c)
	page.FlyToSchool(*req.SchoolID)
	h.respondState(c, page)
}

// ClickMarker handles POST /api/markers/:index/click. The index is the position in GET /api/markers.
func (h *APIHandler) ClickMarker(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Marker index must be a number"})
		return
	}

	page, _ := h.loadPage(c)
	if !page.ClickMarker(index) && page.State().Initialized {
		c.JSON(http.StatusNotFound, gin.H{"error": "Marker not found"})
		return
	}
	h.respondState(c, page)
}

// FlyToReset handles POST /api/reset
func (h *APIHandler) FlyToReset(c *gin.Context) {
	page, _ := h.loadPage(c)
	page.FlyToReset()
	h.respondState(c, page)
}

// OpenMenu handles POST /api/menu/open
func (h *APIHandler) OpenMenu(c *gin.Context) {
	page, _ := h.loadPage(c)
	page.OpenMenu()
	h.respondState(c, page)
}

// CloseMenu handles POST /api/menu/close
func (h *APIHandler) CloseMenu(c *gin.Context) {
	page, _ := h.loadPage(c)
	page.CloseMenu()
	h.respondState(c, page)
}

// ToggleMenu handles POST /api/menu/toggle
func (h *APIHandler) ToggleMenu(c *gin.Context) {
	page, _ := h.loadPage(c)
	page.ToggleMenu()
	h.respondState(c, page)
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
