package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/khanhvu-dev/mango-cache/internal/logging"
)

// Sweeper chạy DrainExpired định kỳ để dọn những entry hết hạn mà không có
// truy cập nào chạm tới. Một sweep đang chạy thì tick kế tiếp bị bỏ qua.
type Sweeper struct {
	engine   *Engine
	interval time.Duration

	running  atomic.Bool
	sweeping atomic.Bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	log *logging.Tagged
}

func NewSweeper(engine *Engine, interval time.Duration) *Sweeper {
	return &Sweeper{
		engine:   engine,
		interval: interval,
		log:      logging.WithTag("sweeper"),
	}
}

// Start chạy vòng sweep nền. Idempotent: gọi lần hai khi đang chạy chỉ log
// warning và không làm gì.
func (s *Sweeper) Start(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warnf("already running, start ignored")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.log.Infof("started (interval=%s)", s.interval)

		for {
			select {
			case <-ctx.Done():
				s.log.Infof("stopped")
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Sweeper) sweep() {
	// Tick chồng lên một sweep còn đang chạy thì bỏ qua tick đó.
	if !s.sweeping.CompareAndSwap(false, true) {
		s.log.Debugf("previous sweep still in flight, tick skipped")
		return
	}
	defer s.sweeping.Store(false)

	if drained := s.engine.DrainExpired(); drained > 0 {
		s.log.Infof("drained %d expired entries", drained)
	}
}

// Stop hủy vòng tick và đợi sweep đang bay hoàn tất.
func (s *Sweeper) Stop() {
	if !s.running.Load() {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.running.Store(false)
}
