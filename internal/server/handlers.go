package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smoodsie/beatsync-codex/internal/job"
	"github.com/smoodsie/beatsync-codex/internal/output"
	"github.com/smoodsie/beatsync-codex/internal/playlist"
)

// extract godoc
// @Summary Extract a playlist synchronously
// @Description Extracts tracks from the supplied markup, or fetches the URL first when no markup is given.
// @Tags Extraction
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Markup or page URL"
// @Success 200 {object} ExtractResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/extract [post]
func (s *Server) extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	resp := ExtractResponse{}
	switch {
	case strings.TrimSpace(req.HTML) != "":
		resp.Playlist = s.service.ExtractHTML(req.HTML, req.URL)
	case strings.TrimSpace(req.URL) != "":
		result, err := s.service.Extract(c.Request.Context(), req.URL, nil)
		if err != nil {
			slog.Error("Extraction failed", "url", req.URL, "error", err)
			c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
			return
		}
		resp.Playlist = result
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrMissingSource.Error()})
		return
	}

	if err := playlist.RequireTracks(resp.Playlist); err != nil {
		resp.Message = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// createJob godoc
// @Summary Start an extraction job
// @Description Submits a job that fetches the URL, extracts its playlist and stores the result.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body job.Request true "Job parameters"
// @Success 202 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/jobs [post]
func (s *Server) createJob(c *gin.Context) {
	var req job.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	if req.Format == "" {
		req.Format = s.cfg.Output.Format
	}
	format, err := output.ParseFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	req.Format = string(format)

	jobStatus, ctx := s.jobManager.CreateJob(req)
	go s.processJobInBackground(ctx, jobStatus.ID, req.URL, format)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Extraction started",
		"jobId":   jobStatus.ID,
	})
}

// getJobStatus godoc
// @Summary Get job status
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} job.Status
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (s *Server) getJobStatus(c *gin.Context) {
	jobID := c.Param("id")

	jobStatus, err := s.jobManager.GetJob(jobID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, jobStatus)
}

// cancelJob godoc
// @Summary Cancel a job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/jobs/{id} [delete]
func (s *Server) cancelJob(c *gin.Context) {
	jobID := c.Param("id")

	if err := s.jobManager.CancelJob(jobID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Job cancelled"})
}

// listJobs godoc
// @Summary List jobs
// @Tags Jobs
// @Produce json
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} job.Response
// @Router /api/v1/jobs [get]
func (s *Server) listJobs(c *gin.Context) {
	page := 1
	pageSize := job.DefaultPageSize

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if ps := c.Query("pageSize"); ps != "" {
		if parsed, err := strconv.Atoi(ps); err == nil && parsed > 0 && parsed <= job.MaxPageSize {
			pageSize = parsed
		}
	}

	response := s.jobManager.ListJobs(page, pageSize)
	c.JSON(http.StatusOK, response)
}

// listPlaylists godoc
// @Summary List stored playlists
// @Tags Playlists
// @Produce json
// @Param prefix query string false "Name prefix"
// @Success 200 {array} PlaylistFile
// @Router /api/v1/playlists [get]
func (s *Server) listPlaylists(c *gin.Context) {
	names, err := s.store.List(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	files := make([]PlaylistFile, 0, len(names))
	for _, name := range names {
		files = append(files, PlaylistFile{Name: name, Location: s.store.Location(name)})
	}
	c.JSON(http.StatusOK, files)
}

// downloadPlaylist godoc
// @Summary Download a stored playlist
// @Tags Playlists
// @Produce json
// @Produce text/csv
// @Param name path string true "Playlist file name"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/playlists/{name} [get]
func (s *Server) downloadPlaylist(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	ctx := c.Request.Context()

	if name == "" || !s.store.Exists(ctx, name) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("playlist not found: %s", name)})
		return
	}

	r, err := s.store.Reader(ctx, name)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	defer r.Close()

	contentType := "application/octet-stream"
	switch path.Ext(name) {
	case output.FormatJSON.Extension():
		contentType = "application/json"
	case output.FormatCSV.Extension():
		contentType = "text/csv"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(name)))
	c.Status(http.StatusOK)
	c.Header("Content-Type", contentType)
	if _, err := io.Copy(c.Writer, r); err != nil {
		slog.Warn("Failed to stream playlist", "name", name, "error", err)
	}
}

// health godoc
// @Summary Health check
// @Tags Utility
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
