package ui

import (
	"net/http"
	"time"

	"samplewms/domain/core"
	"samplewms/domain/sample"
	"samplewms/internal/errors"
	"samplewms/internal/inventory"
	"samplewms/internal/remarks"

	"github.com/gin-gonic/gin"
)

// sampleDetail adds rendered remarks to a sample
type sampleDetail struct {
	sample.Sample
	RemarksHTML string `json:"remarks_html,omitempty"`
}

func (s *Server) listFiltered(c *gin.Context) ([]sample.Sample, bool) {
	var filter sample.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		s.respondError(c, "", errors.WithCode(errors.CodeInvalidInput, err, "invalid filter"), nil)
		return nil, false
	}
	list, err := s.samples.List(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, "", err, nil)
		return nil, false
	}
	return list, true
}

func (s *Server) handleListSamples(c *gin.Context) {
	list, ok := s.listFiltered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"samples": list, "count": len(list)})
}

func (s *Server) handleGetSample(c *gin.Context) {
	id, err := core.ParseSampleID(c.Param("id"))
	if err != nil {
		s.respondError(c, "", errors.WithCode(errors.CodeInvalidInput, err, "invalid id"), nil)
		return
	}
	found, err := s.samples.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, "", err, nil)
		return
	}
	c.JSON(http.StatusOK, sampleDetail{Sample: *found, RemarksHTML: remarks.RenderHTML(found.Remarks)})
}

func (s *Server) handleCreateSample(c *gin.Context) {
	var in sample.Sample
	if err := c.ShouldBindJSON(&in); err != nil {
		s.respondError(c, "", errors.WithCode(errors.CodeInvalidInput, err, "invalid sample body"), nil)
		return
	}
	if in.EntryDate.IsZero() {
		in.EntryDate = sample.DateOf(time.Now())
	}
	if err := s.samples.Create(c.Request.Context(), &in); err != nil {
		s.respondError(c, "", err, nil)
		return
	}
	c.JSON(http.StatusCreated, in)
}

func (s *Server) handleUpdateSample(c *gin.Context) {
	id, err := core.ParseSampleID(c.Param("id"))
	if err != nil {
		s.respondError(c, "", errors.WithCode(errors.CodeInvalidInput, err, "invalid id"), nil)
		return
	}
	var in sample.Sample
	if err := c.ShouldBindJSON(&in); err != nil {
		s.respondError(c, "", errors.WithCode(errors.CodeInvalidInput, err, "invalid sample body"), nil)
		return
	}
	in.ID = id
	if err := s.samples.Update(c.Request.Context(), &in); err != nil {
		s.respondError(c, "", err, nil)
		return
	}
	c.JSON(http.StatusOK, in)
}

func (s *Server) handleDeleteSample(c *gin.Context) {
	id, err := core.ParseSampleID(c.Param("id"))
	if err != nil {
		s.respondError(c, "", errors.WithCode(errors.CodeInvalidInput, err, "invalid id"), nil)
		return
	}
	if err := s.samples.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, "", err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStats(c *gin.Context) {
	list, ok := s.listFiltered(c)
	if !ok {
		return
	}
	summary, err := inventory.Summarize(list)
	if err != nil {
		s.respondError(c, "", errors.Wrap(err, "failed to summarize samples"), nil)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleShelves(c *gin.Context) {
	list, ok := s.listFiltered(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"shelves": inventory.GroupByShelf(list)})
}
