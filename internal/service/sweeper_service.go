package service

import (
	"time"

	"go.uber.org/zap"

	"shorturl-go/internal/repository"
)

// SweepExpired 批量停用所有已过期且仍启用的短链，并逐条使缓存失效，
// 返回影响行数。幂等：紧接着再跑一次影响 0 行。
// 失败只记日志，由调度器在下一个周期重试。
func SweepExpired(now time.Time) (int64, error) {
	codes, err := repository.FindExpiredCodes(now)
	if err != nil {
		zap.L().Error("查询过期短链失败", zap.Error(err))
		return 0, err
	}
	if len(codes) == 0 {
		return 0, nil
	}

	affected, err := repository.DeactivateExpired(now)
	if err != nil {
		zap.L().Error("批量停用过期短链失败", zap.Error(err))
		return 0, err
	}

	// 先停用后失效；select 和 update 之间新过期的行即便漏掉失效，
	// Resolve 的实时过期检查也兜得住
	for _, code := range codes {
		urlCache.Invalidate(code)
	}

	zap.L().Info("Deactivated expired short URLs",
		zap.Int64("affected", affected))
	return affected, nil
}
