package stealth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Announcement is one candidate payment pulled from the ledger: the
// transfer-record account address plus the announced one-time address.
type Announcement struct {
	RecordAddress [32]byte
	OneTime       OneTimeAddress
}

// Match is an announcement that belongs to one of the scanned key pairs.
type Match struct {
	Announcement Announcement
	// KeyIndex is the index into the scanned key pair slice (0 = active set).
	KeyIndex int
}

// Scanner checks ledger announcements against a set of stealth key pairs in
// bounded batches. Per-candidate checks are stateless and side-effect-free,
// so batches run across a small worker pool; the inter-batch pause keeps
// the host responsive when scanning thousands of announcements.
type Scanner struct {
	BatchSize int
	Pause     time.Duration
	Workers   int
	Log       *zap.Logger
}

// NewScanner returns a scanner with the given batch size and pause.
// Batch size defaults to 32, workers to 4.
func NewScanner(batchSize int, pause time.Duration, log *zap.Logger) *Scanner {
	if batchSize <= 0 {
		batchSize = 32
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{
		BatchSize: batchSize,
		Pause:     pause,
		Workers:   4,
		Log:       log,
	}
}

// Scan checks every announcement against every key pair and returns the
// matches. The active key set should be first in keys; archived sets follow
// so payments sent under an old meta-address are still found.
func (s *Scanner) Scan(ctx context.Context, anns []Announcement, keys []*KeyPair) ([]Match, error) {
	var (
		mu      sync.Mutex
		matches []Match
	)

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}

	for start := 0; start < len(anns); start += s.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + s.BatchSize
		if end > len(anns) {
			end = len(anns)
		}
		batch := anns[start:end]

		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range jobs {
					ann := batch[idx]
					for ki, kp := range keys {
						ok, err := CheckOwnership(&ann.OneTime, kp.SpendingPrivateKey, kp.ViewingPrivateKey)
						if err != nil {
							s.Log.Warn("skipping malformed announcement",
								zap.Binary("record", ann.RecordAddress[:]))
							continue
						}
						if ok {
							mu.Lock()
							matches = append(matches, Match{Announcement: ann, KeyIndex: ki})
							mu.Unlock()
							break
						}
					}
				}
			}()
		}
		for i := range batch {
			jobs <- i
		}
		close(jobs)
		wg.Wait()

		if s.Pause > 0 && end < len(anns) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.Pause):
			}
		}
	}

	s.Log.Debug("scan complete",
		zap.Int("announcements", len(anns)),
		zap.Int("matches", len(matches)))
	return matches, nil
}
