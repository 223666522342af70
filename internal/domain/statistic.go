package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
	"github.com/cryptojackpot/lottery/pkg/xredis"
)

type StatisticDomain interface {
	GetStats(context.Context, *model.GetStatsRequest) (*model.GetStatsResponse, error)
}

type statisticDomain struct {
	drawRepo    repository.DrawRepository
	unitRepo    repository.InventoryUnitRepository
	redisClient xredis.Client
}

func NewStatisticDomain(
	drawRepo repository.DrawRepository,
	unitRepo repository.InventoryUnitRepository,
	redisClient xredis.Client,
) *statisticDomain {
	return &statisticDomain{
		drawRepo:    drawRepo,
		unitRepo:    unitRepo,
		redisClient: redisClient,
	}
}

// GetStats projects sale progress of a draw. Counts come from the status
// index, never from walking units. The projection is cached briefly, a
// broken cache only costs the query, not the response.
func (d *statisticDomain) GetStats(
	ctx context.Context, req *model.GetStatsRequest,
) (*model.GetStatsResponse, error) {
	if req.DrawID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a draw id")
	}

	if cached := d.fromCache(ctx, req.DrawID); cached != nil {
		return cached, nil
	}

	draw, err := d.drawRepo.GetByID(ctx, req.DrawID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found draw")
		}

		xcontext.Logger(ctx).Errorf("Cannot get draw: %v", err)
		return nil, errorx.Unknown
	}

	counts, err := d.unitRepo.CountByStatus(ctx, draw.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count units by status: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetStatsResponse{DrawID: draw.ID, TotalUnits: draw.TotalUnits()}
	for _, c := range counts {
		switch c.Status {
		case entity.UnitSold:
			resp.SoldCount = int(c.Count)
		case entity.UnitAvailable:
			resp.AvailableCount = int(c.Count)
		}
	}

	if resp.TotalUnits > 0 {
		ratio := float64(resp.SoldCount) / float64(resp.TotalUnits) * 100
		resp.PercentageSold = math.Round(ratio*100) / 100
	}

	d.toCache(ctx, resp)
	return resp, nil
}

func (d *statisticDomain) fromCache(ctx context.Context, drawID string) *model.GetStatsResponse {
	if d.redisClient == nil {
		return nil
	}

	value, err := d.redisClient.Get(ctx, statsKey(drawID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Warnf("Cannot get cached stats: %v", err)
		}

		return nil
	}

	var resp model.GetStatsResponse
	if err := json.Unmarshal([]byte(value), &resp); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot unmarshal cached stats: %v", err)
		return nil
	}

	return &resp
}

func (d *statisticDomain) toCache(ctx context.Context, resp *model.GetStatsResponse) {
	if d.redisClient == nil {
		return
	}

	b, err := json.Marshal(resp)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot marshal stats: %v", err)
		return
	}

	ttl := xcontext.Configs(ctx).Lottery.StatsCacheTTL
	if err := d.redisClient.Set(ctx, statsKey(resp.DrawID), string(b), ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache stats: %v", err)
	}
}

func statsKey(drawID string) string {
	return "lottery:stats:" + drawID
}
