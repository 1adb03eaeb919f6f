package controllers

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ps-assigner/app/models"
	"github.com/ps-assigner/app/requests"
	"github.com/ps-assigner/app/responses"
	"github.com/ps-assigner/app/services"
	"github.com/ps-assigner/internal/tabular"
	"go.uber.org/zap"
)

// Version phiên bản service
const Version = "1.0.0"

// AssignmentController controller xử lý các request gán ps/sec
type AssignmentController struct {
	assignmentService *services.AssignmentService
	logger            *zap.Logger
}

// NewAssignmentController tạo mới AssignmentController
func NewAssignmentController(assignmentService *services.AssignmentService, logger *zap.Logger) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// Encode mã hóa một H_No, trả về dh_no và sort key
func (ac *AssignmentController) Encode(c *gin.Context) {
	var req requests.EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ac.invalidRequest(c, "Request không hợp lệ: "+err.Error())
		return
	}

	rec, err := ac.assignmentService.Encode(req.HouseNo)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.EncodeResponse{
		RawHouseNo:   rec.RawHouseNo,
		CleanHouseNo: rec.CleanHouseNo,
		DhNo:         rec.EncodedKey,
		SortKey:      rec.SortKey,
		Depth:        rec.Depth,
	})
}

// Assign gán đồng bộ. Input là multipart (houses, ranges) hoặc JSON body.
func (ac *AssignmentController) Assign(c *gin.Context) {
	var query requests.AssignQuery
	_ = c.ShouldBindQuery(&query)

	format := tabular.FormatJSON
	if query.Format != "" {
		f, err := tabular.ParseFormat(query.Format)
		if err != nil {
			ac.respondError(c, err)
			return
		}
		format = f
	}

	houses, ranges, err := ac.readInput(c)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	batch, err := ac.assignmentService.Assign(c.Request.Context(), houses, ranges)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	if format == tabular.FormatJSON {
		c.JSON(http.StatusOK, responses.AssignmentResponse{
			Results: batch.Results,
			Summary: batch.Summary,
		})
		return
	}
	ac.writeResults(c, format, batch.Results)
}

// SubmitJob tạo job gán chạy nền
func (ac *AssignmentController) SubmitJob(c *gin.Context) {
	houses, ranges, err := ac.readInput(c)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	job, err := ac.assignmentService.SubmitJob(c.Request.Context(), houses, ranges)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, responses.SubmitJobResponse{
		JobID:       job.JobID,
		TotalHouses: job.Total,
		StatusURL:   "/v1/assignments/jobs/" + job.JobID + "/status",
		Message:     "Job đã được tạo và đang xử lý",
	})
}

// GetJobStatus lấy trạng thái job
func (ac *AssignmentController) GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobID")

	job, err := ac.assignmentService.GetJobStatus(c.Request.Context(), jobID)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:     job.JobID,
		Status:    job.Status,
		Progress:  job.Progress,
		Processed: job.Processed,
		Total:     job.Total,
		Message:   job.Message,
		Error:     job.Error,
		ErrorCode: job.ErrorCode,
		Summary:   job.Summary,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
		UpdatedAt: job.UpdatedAt.Format(time.RFC3339),
	})
}

// GetJobResults lấy kết quả job: json (mặc định), ndjson (+gzip), csv, xlsx
func (ac *AssignmentController) GetJobResults(c *gin.Context) {
	jobID := c.Param("jobID")

	var query requests.AssignQuery
	_ = c.ShouldBindQuery(&query)

	format := tabular.FormatJSON
	if query.Format != "" {
		f, err := tabular.ParseFormat(query.Format)
		if err != nil {
			ac.respondError(c, err)
			return
		}
		format = f
	}

	if format == tabular.FormatNDJSON {
		ac.streamNDJSONResults(c, jobID, query.Gzip == "1")
		return
	}

	results, err := ac.assignmentService.GetJobResults(c.Request.Context(), jobID)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	if format == tabular.FormatJSON {
		c.JSON(http.StatusOK, responses.SuccessResponse{
			Success:   true,
			Message:   "Lấy kết quả thành công",
			Data:      results,
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}
	ac.writeResults(c, format, results)
}

// Sample tải file mẫu Ref_House.xlsx / Main_assign.xlsx
func (ac *AssignmentController) Sample(c *gin.Context) {
	name := c.Param("name")

	var buf bytes.Buffer
	if err := tabular.WriteTemplate(&buf, name); err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:     "SAMPLE_NOT_FOUND",
			Message:   "Không có file mẫu: " + name,
			Details:   gin.H{"available": tabular.TemplateNames()},
			Timestamp: time.Now().Format(time.RFC3339),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, tabular.FormatXLSX.ContentType(), buf.Bytes())
}

// HealthCheck kiểm tra sức khỏe service
func (ac *AssignmentController) HealthCheck(c *gin.Context) {
	uptime := time.Since(ac.assignmentService.GetStartTime())

	c.JSON(http.StatusOK, responses.HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    uptime.String(),
		Version:   Version,
		Services: map[string]string{
			"assigner":  "healthy",
			"job_store": "healthy",
		},
	})
}

// readInput đọc input từ multipart (houses, ranges) hoặc JSON body
func (ac *AssignmentController) readInput(c *gin.Context) ([]models.HouseRow, []models.RangeRecord, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req requests.AssignRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
		}
		ranges, err := req.RangeRows()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
		}
		return req.HouseRows(), ranges, nil
	}

	housesFile, err := c.FormFile("houses")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: thiếu file houses", services.ErrInvalidInput)
	}
	rangesFile, err := c.FormFile("ranges")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: thiếu file ranges", services.ErrInvalidInput)
	}

	var houses []models.HouseRow
	if err := readUpload(housesFile, func(t *tabular.Table) (err error) {
		houses, err = tabular.HousesFromTable(t)
		return err
	}); err != nil {
		return nil, nil, err
	}

	var ranges []models.RangeRecord
	if err := readUpload(rangesFile, func(t *tabular.Table) (err error) {
		ranges, err = tabular.RangesFromTable(t)
		return err
	}); err != nil {
		return nil, nil, err
	}

	ac.logger.Debug("Đã đọc input",
		zap.String("houses_file", housesFile.Filename),
		zap.Int("houses", len(houses)),
		zap.String("ranges_file", rangesFile.Filename),
		zap.Int("ranges", len(ranges)))
	return houses, ranges, nil
}

func readUpload(fh *multipart.FileHeader, convert func(t *tabular.Table) error) error {
	format, err := tabular.FormatFromName(fh.Filename)
	if err != nil {
		return err
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("không mở được file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	t, err := tabular.ReadTable(f, format)
	if err != nil {
		return fmt.Errorf("%s: %w", fh.Filename, err)
	}
	return convert(t)
}

// writeResults ghi kết quả dạng file (csv, xlsx, ndjson)
func (ac *AssignmentController) writeResults(c *gin.Context, format tabular.Format, results []models.AssignmentResult) {
	var buf bytes.Buffer
	if err := tabular.WriteResults(&buf, format, results); err != nil {
		ac.respondError(c, err)
		return
	}

	if format == tabular.FormatXLSX || format == tabular.FormatCSV {
		name := strings.TrimSuffix(tabular.DefaultOutputName, ".xlsx") + "." + string(format)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// streamNDJSONResults stream kết quả theo format NDJSON với hỗ trợ gzip
func (ac *AssignmentController) streamNDJSONResults(c *gin.Context, jobID string, gzipEnabled bool) {
	resultChannel, err := ac.assignmentService.GetJobResultsStream(c.Request.Context(), jobID)
	if err != nil {
		ac.respondError(c, err)
		return
	}

	c.Header("Content-Type", tabular.FormatNDJSON.ContentType())

	var writer gin.ResponseWriter = c.Writer
	if gzipEnabled {
		c.Header("Content-Encoding", "gzip")
		gzWriter := gzip.NewWriter(c.Writer)
		defer gzWriter.Close()
		writer = &gzipResponseWriter{
			ResponseWriter: c.Writer,
			gzWriter:       gzWriter,
		}
	}
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(writer)
	for result := range resultChannel {
		if err := encoder.Encode(result); err != nil {
			ac.logger.Error("Lỗi encode NDJSON", zap.Error(err))
			break
		}
	}
	writer.Flush()
}

// gzipResponseWriter wrapper cho gzip writer
type gzipResponseWriter struct {
	gin.ResponseWriter
	gzWriter *gzip.Writer
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	return w.gzWriter.Write(data)
}

func (w *gzipResponseWriter) Flush() {
	w.gzWriter.Flush()
	w.ResponseWriter.Flush()
}

func (ac *AssignmentController) invalidRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, responses.ErrorResponse{
		Error:     services.CodeInvalidRequest,
		Message:   msg,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// respondError ánh xạ lỗi sang HTTP status và ErrorResponse
func (ac *AssignmentController) respondError(c *gin.Context, err error) {
	code := services.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case services.CodeInvalidRequest:
		status = http.StatusBadRequest
	case services.CodeMissingColumns, services.CodeKeyOverflow, services.CodeOverlappingRanges:
		status = http.StatusUnprocessableEntity
	case services.CodeJobNotFound:
		status = http.StatusNotFound
	case services.CodeJobNotReady:
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		ac.logger.Error("Lỗi xử lý request", zap.String("path", c.FullPath()), zap.Error(err))
	}

	c.JSON(status, responses.ErrorResponse{
		Error:     code,
		Message:   err.Error(),
		Details:   errorDetails(err),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func errorDetails(err error) interface{} {
	var missing *tabular.MissingColumnsError
	if errors.As(err, &missing) {
		return gin.H{"table": missing.Table, "columns": missing.Columns}
	}
	var codeErr *tabular.CodeError
	if errors.As(err, &codeErr) {
		return gin.H{"row": codeErr.Row, "column": codeErr.Column, "value": codeErr.Value}
	}
	var rowErr *services.RowError
	if errors.As(err, &rowErr) {
		return gin.H{"row": rowErr.Row}
	}
	return nil
}
