package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ps-assigner/app/config"
	"github.com/ps-assigner/app/models"
	"github.com/ps-assigner/helpers/utils"
	"github.com/ps-assigner/internal/encoder"
	"github.com/ps-assigner/internal/search"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// encodeChunkSize số dòng house mỗi worker xử lý một lần
const encodeChunkSize = 1024

// AssignmentService service gán ps/sec cho bảng house theo bảng range
type AssignmentService struct {
	cfg       config.AssignCfg
	policy    search.OverlapPolicy
	indexes   *search.IndexCache
	jobs      IJobStore
	logger    *zap.Logger
	startTime time.Time

	// Stats
	batches   atomic.Int64
	processed atomic.Int64
}

// Batch kết quả của một lần gán
type Batch struct {
	Results []models.AssignmentResult
	Summary models.BatchSummary
}

// NewAssignmentService tạo mới AssignmentService
func NewAssignmentService(cfg config.AssignCfg, jobs IJobStore, logger *zap.Logger) (*AssignmentService, error) {
	policy, err := search.ParseOverlapPolicy(cfg.OverlapPolicy)
	if err != nil {
		return nil, err
	}
	indexes, err := search.NewIndexCache(cfg.IndexCacheSize)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo index cache: %w", err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &AssignmentService{
		cfg:       cfg,
		policy:    policy,
		indexes:   indexes,
		jobs:      jobs,
		logger:    logger,
		startTime: time.Now(),
	}, nil
}

// Policy overlap policy đang dùng
func (s *AssignmentService) Policy() search.OverlapPolicy {
	return s.policy
}

// Encode chuẩn hóa và mã hóa một giá trị H_No
func (s *AssignmentService) Encode(raw string) (models.AddressRecord, error) {
	return encoder.EncodeHouse(raw)
}

// Assign gán ps/sec cho từng dòng house. Lỗi mã hóa của bất kỳ dòng nào làm
// hỏng cả batch.
func (s *AssignmentService) Assign(ctx context.Context, houses []models.HouseRow, ranges []models.RangeRecord) (*Batch, error) {
	return s.assign(ctx, houses, ranges, nil)
}

func (s *AssignmentService) assign(ctx context.Context, houses []models.HouseRow, ranges []models.RangeRecord, progress func(done int)) (*Batch, error) {
	start := time.Now()
	if err := s.checkLimits(houses, ranges); err != nil {
		return nil, err
	}

	idx, hit, err := s.indexes.GetOrBuild(ranges, s.policy)
	if err != nil {
		return nil, err
	}

	results := make([]models.AssignmentResult, len(houses))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for lo := 0; lo < len(houses); lo += encodeChunkSize {
		lo, hi := lo, min(lo+encodeChunkSize, len(houses))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := assignOne(idx, houses[i])
				if err != nil {
					return err
				}
				results[i] = res
			}
			n := done.Add(int64(hi - lo))
			if progress != nil {
				progress(int(n))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := models.BatchSummary{
		Houses:     len(houses),
		Ranges:     idx.Len(),
		DurationMs: time.Since(start).Milliseconds(),
		IndexHit:   hit,
	}
	for i := range results {
		if results[i].Matched() {
			summary.Matched++
		}
	}
	summary.Unmatched = summary.Houses - summary.Matched

	s.batches.Add(1)
	s.processed.Add(int64(len(houses)))
	s.logger.Info("Assignment batch completed",
		zap.Int("houses", summary.Houses),
		zap.Int("ranges", summary.Ranges),
		zap.Int("matched", summary.Matched),
		zap.Int("unmatched", summary.Unmatched),
		zap.Bool("index_cache_hit", hit),
		zap.Int64("duration_ms", summary.DurationMs))

	return &Batch{Results: results, Summary: summary}, nil
}

func assignOne(m search.Matcher, h models.HouseRow) (models.AssignmentResult, error) {
	rec, err := encoder.EncodeHouse(h.HNo)
	if err != nil {
		return models.AssignmentResult{}, &RowError{Row: h.Row, Err: err}
	}
	ps, sec, found := search.Codes(m, rec.SortKey)
	return models.AssignmentResult{
		SNo:   h.SNo,
		DhNo:  rec.EncodedKey,
		PS:    ps,
		Sec:   sec,
		OdhNo: h.HNo,
		RefNo: h.RefNo,
		Found: found,
	}, nil
}

func (s *AssignmentService) checkLimits(houses []models.HouseRow, ranges []models.RangeRecord) error {
	if s.cfg.MaxHouseRows > 0 && len(houses) > s.cfg.MaxHouseRows {
		return fmt.Errorf("%w: %d dòng house (tối đa %d)", ErrTooManyRows, len(houses), s.cfg.MaxHouseRows)
	}
	if s.cfg.MaxRangeRows > 0 && len(ranges) > s.cfg.MaxRangeRows {
		return fmt.Errorf("%w: %d dòng range (tối đa %d)", ErrTooManyRows, len(ranges), s.cfg.MaxRangeRows)
	}
	return nil
}

// Mismatch một dòng mà binary search và scan cho kết quả khác nhau
type Mismatch struct {
	Row     int    `json:"row"`
	SortKey string `json:"sort_key"`
	Binary  int    `json:"binary_row"`
	Scan    int    `json:"scan_row"`
}

// CrossCheck so sánh binary search với scan tuần tự trên toàn bộ house.
// Chỉ khác nhau khi bảng range có chồng lấn.
func (s *AssignmentService) CrossCheck(houses []models.HouseRow, ranges []models.RangeRecord) ([]Mismatch, error) {
	idx, _, err := s.indexes.GetOrBuild(ranges, s.policy)
	if err != nil {
		return nil, err
	}
	scan := search.NewScanMatcher(idx)

	var mismatches []Mismatch
	for _, h := range houses {
		rec, err := encoder.EncodeHouse(h.HNo)
		if err != nil {
			return nil, &RowError{Row: h.Row, Err: err}
		}
		a, okA := idx.Lookup(rec.SortKey)
		b, okB := scan.Lookup(rec.SortKey)
		if okA != okB || a.Row != b.Row {
			m := Mismatch{Row: h.Row, SortKey: rec.SortKey}
			if okA {
				m.Binary = a.Row
			}
			if okB {
				m.Scan = b.Row
			}
			mismatches = append(mismatches, m)
		}
	}
	return mismatches, nil
}

// SubmitJob tạo job và xử lý nền
func (s *AssignmentService) SubmitJob(ctx context.Context, houses []models.HouseRow, ranges []models.RangeRecord) (*models.AssignmentJob, error) {
	if err := s.checkLimits(houses, ranges); err != nil {
		return nil, err
	}

	job := models.NewAssignmentJob(utils.GenerateJobID(), len(houses))
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("không thể lưu job: %w", err)
	}

	go s.ProcessJob(context.Background(), job.JobID, houses, ranges)

	return job, nil
}

// ProcessJob chạy batch cho job và cập nhật trạng thái vào job store
func (s *AssignmentService) ProcessJob(ctx context.Context, jobID string, houses []models.HouseRow, ranges []models.RangeRecord) {
	job := models.NewAssignmentJob(jobID, len(houses))
	if stored, err := s.jobs.GetJob(ctx, jobID); err == nil {
		job = stored
	}

	var mu sync.Mutex
	save := func(mutate func(j *models.AssignmentJob)) {
		mu.Lock()
		defer mu.Unlock()
		mutate(job)
		job.UpdatedAt = time.Now()
		if err := s.jobs.SaveJob(ctx, job); err != nil {
			s.logger.Warn("Không thể cập nhật job", zap.String("job_id", jobID), zap.Error(err))
		}
	}

	save(func(j *models.AssignmentJob) {
		j.Status = models.JobStatusRunning
		j.Message = "Đang xử lý..."
	})

	batch, err := s.assign(ctx, houses, ranges, func(done int) {
		save(func(j *models.AssignmentJob) {
			j.Processed = max(j.Processed, done)
			if j.Total > 0 {
				j.Progress = float64(j.Processed) / float64(j.Total)
			}
		})
	})
	if err == nil {
		err = s.jobs.SaveResults(ctx, jobID, batch.Results)
	}

	if err != nil {
		s.logger.Error("Assignment job failed", zap.String("job_id", jobID), zap.Error(err))
		save(func(j *models.AssignmentJob) {
			j.Status = models.JobStatusFailed
			j.Error = err.Error()
			j.ErrorCode = ErrorCode(err)
			j.Message = "Xử lý thất bại"
		})
		return
	}

	save(func(j *models.AssignmentJob) {
		j.Status = models.JobStatusDone
		j.Processed = j.Total
		j.Progress = 1.0
		j.Summary = &batch.Summary
		j.Message = "Hoàn thành xử lý"
	})
	s.logger.Info("Assignment job completed", zap.String("job_id", jobID), zap.Int("houses", len(houses)))
}

// GetJobStatus lấy trạng thái job
func (s *AssignmentService) GetJobStatus(ctx context.Context, jobID string) (*models.AssignmentJob, error) {
	return s.jobs.GetJob(ctx, jobID)
}

// GetJobResults lấy kết quả job đã hoàn thành
func (s *AssignmentService) GetJobResults(ctx context.Context, jobID string) ([]models.AssignmentResult, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == models.JobStatusFailed {
		return nil, fmt.Errorf("%w: %s", ErrJobNotReady, job.Error)
	}
	if job.Status != models.JobStatusDone {
		return nil, ErrJobNotReady
	}
	return s.jobs.GetResults(ctx, jobID)
}

// GetJobResultsStream lấy kết quả job dưới dạng channel để stream
func (s *AssignmentService) GetJobResultsStream(ctx context.Context, jobID string) (<-chan models.AssignmentResult, error) {
	results, err := s.GetJobResults(ctx, jobID)
	if err != nil {
		return nil, err
	}

	ch := make(chan models.AssignmentResult, 100)
	go func() {
		defer close(ch)
		for _, r := range results {
			select {
			case ch <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// GetStartTime lấy thời gian khởi động service
func (s *AssignmentService) GetStartTime() time.Time {
	return s.startTime
}

// GetStats lấy thống kê service
func (s *AssignmentService) GetStats(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{
		"uptime_seconds":   int64(time.Since(s.startTime).Seconds()),
		"start_time":       s.startTime.Format(time.RFC3339),
		"overlap_policy":   string(s.policy),
		"workers":          s.cfg.Workers,
		"batches":          s.batches.Load(),
		"houses_processed": s.processed.Load(),
		"index_cache":      s.indexes.Stats(),
	}
	if js, err := s.jobs.GetStats(ctx); err == nil {
		stats["job_store"] = js
	} else if !errors.Is(err, context.Canceled) {
		s.logger.Warn("Không thể lấy thống kê job store", zap.Error(err))
	}
	return stats
}

// PurgeIndexCache xóa toàn bộ RangeIndex đã cache
func (s *AssignmentService) PurgeIndexCache() {
	s.indexes.Purge()
	s.logger.Info("Đã purge index cache")
}
