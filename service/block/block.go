package block

import (
	"context"
	"errors"
	"time"

	"vault/core"
)

// SecondsPerBlock width of one price feed block
const SecondsPerBlock = 60

type service struct {
	genesis int64
}

// New new block service
func New(genesis int64) core.BlockService {
	return &service{
		genesis: genesis,
	}
}

// GetBlock get block by time
func (s *service) GetBlock(ctx context.Context, t time.Time) (int64, error) {
	seconds := t.UTC().Unix() - s.genesis
	if seconds <= 0 {
		return 0, errors.New("time before genesis")
	}

	return seconds / SecondsPerBlock, nil
}
