package ui

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"samplewms/adapters/excel"
	"samplewms/domain/sample"
	"samplewms/internal/errors"
	"samplewms/internal/exchange"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func sendDownload(c *gin.Context, d *exchange.Download) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.FileName}))
	c.Data(http.StatusOK, d.ContentType, d.Data)
}

// handleExport streams the filtered list as a workbook
func (s *Server) handleExport(c *gin.Context) {
	var filter sample.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		s.respondError(c, exchange.OpExport, errors.WithCode(errors.CodeInvalidInput, err, "invalid filter"), nil)
		return
	}
	download, err := s.exchange.Export(c.Request.Context(), filter, c.Query("name"))
	if err != nil {
		s.respondError(c, exchange.OpExport, err, nil)
		return
	}
	sendDownload(c, download)
}

func (s *Server) handleTemplate(c *gin.Context) {
	download, err := s.exchange.Template(c.Request.Context())
	if err != nil {
		s.respondError(c, exchange.OpTemplate, err, nil)
		return
	}
	sendDownload(c, download)
}

// handleImport accepts a multipart upload in field "file"
func (s *Server) handleImport(c *gin.Context) {
	// headroom for multipart framing
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxUploadBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, exchange.OpImport, errors.WithCode(errors.CodeInvalidInput, err, "upload field \"file\" is required"), nil)
		return
	}
	if header.Size > s.config.MaxUploadBytes {
		s.respondError(c, exchange.OpImport, errors.InvalidInput(
			fmt.Sprintf("file is %d bytes, limit is %d", header.Size, s.config.MaxUploadBytes)), nil)
		return
	}
	fileName := filepath.Base(header.Filename)
	if _, err := excel.DetectFileType(fileName); err != nil {
		s.respondError(c, exchange.OpImport, err, nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		s.respondError(c, exchange.OpImport, errors.OperationFailed("failed to open upload", err), nil)
		return
	}
	defer file.Close()

	report, err := s.exchange.Import(c.Request.Context(), file, fileName)
	if err != nil {
		var extra gin.H
		if report != nil {
			extra = gin.H{"rejected": report.Rejected, "data_rows": report.DataRows}
		}
		s.respondError(c, exchange.OpImport, err, extra)
		return
	}

	s.logger.Info("upload imported", zap.String("file", fileName), zap.Int("accepted", report.Accepted()))
	c.JSON(http.StatusOK, gin.H{
		"imported":    report.Accepted(),
		"message":     fmt.Sprintf("成功导入 %d 条样品", report.Accepted()),
		"data_rows":   report.DataRows,
		"columns":     report.Columns,
		"rejected":    report.Rejected,
		"diagnostics": report.Diagnostics,
		"samples":     report.Samples,
	})
}
