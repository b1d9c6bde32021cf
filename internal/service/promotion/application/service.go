package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"caddie/internal/pkg/logger"
	"caddie/internal/service/promotion/domain"
)

// PromotionService 定义了优惠服务提供的所有业务用例
type PromotionService struct {
	couponRepo domain.CouponRepository
	engine     domain.RuleEngine
	tracer     trace.Tracer
}

// NewPromotionService 创建一个新的优惠服务实例
func NewPromotionService(repo domain.CouponRepository, engine domain.RuleEngine, tracer trace.Tracer) *PromotionService {
	return &PromotionService{
		couponRepo: repo,
		engine:     engine,
		tracer:     tracer,
	}
}

func toDomainFact(fact OrderFact) domain.Fact {
	return domain.Fact{
		Preset:      fact.Preset,
		Quantity:    fact.Quantity,
		Occasion:    fact.Occasion,
		AmountCents: fact.AmountCents,
	}
}

// FreezeCoupon 是下单时冻结优惠券的核心业务逻辑。
// Saga 模式下这里只置为 FROZEN：支付成功后由 CommitCoupon 置为 USED，
// 订单失败时由 ReleaseCoupon 回滚为 UNUSED。
func (s *PromotionService) FreezeCoupon(ctx context.Context, req *FreezeCouponRequest) (*FreezeCouponResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.FreezeCoupon")
	defer span.End()

	span.SetAttributes(
		attribute.String("coupon.code", req.CouponCode),
		attribute.String("order.id", req.OrderID),
	)

	coupon, err := s.couponRepo.FindByCode(ctx, req.CouponCode)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	discount, err := coupon.Freeze(s.engine, toDomainFact(req.Fact), req.OrderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to save coupon status")
	}

	logger.Ctx(ctx).Info().
		Str("coupon", req.CouponCode).
		Str("order_id", req.OrderID).
		Int64("discount_cents", discount).
		Msg("coupon frozen")

	return &FreezeCouponResponse{
		Success:       true,
		DiscountCents: discount,
		PayableCents:  req.Fact.AmountCents - discount,
		Message:       "Coupon applied successfully",
	}, nil
}

// CommitCoupon 在支付完成后把冻结的券置为已使用
func (s *PromotionService) CommitCoupon(ctx context.Context, req *CouponOrderRequest) error {
	ctx, span := s.tracer.Start(ctx, "service.CommitCoupon")
	defer span.End()

	coupon, err := s.couponRepo.FindByCode(ctx, req.CouponCode)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if err := coupon.Commit(req.OrderID); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save coupon status")
	}

	logger.Ctx(ctx).Info().
		Str("coupon", req.CouponCode).
		Str("order_id", req.OrderID).
		Msg("coupon committed")
	return nil
}

// ReleaseCoupon 是 FreezeCoupon 的补偿方法，把券回滚为未使用
func (s *PromotionService) ReleaseCoupon(ctx context.Context, req *CouponOrderRequest) error {
	ctx, span := s.tracer.Start(ctx, "service.ReleaseCoupon (Compensation)")
	defer span.End()

	coupon, err := s.couponRepo.FindByCode(ctx, req.CouponCode)
	if err != nil {
		// 补偿时券都找不到是一个严重问题，记录错误但不能中断其他补偿
		span.RecordError(err)
		return errors.Wrap(err, "compensation failed")
	}
	if err := coupon.Release(req.OrderID); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to save coupon status during compensation")
	}

	logger.Ctx(ctx).Info().
		Str("coupon", req.CouponCode).
		Str("order_id", req.OrderID).
		Msg("compensation: coupon rolled back to UNUSED")
	span.AddEvent("Coupon status rolled back to UNUSED")
	return nil
}

// PreviewCoupon 只评估资格与折扣，不改变券的状态，供前端实时展示
func (s *PromotionService) PreviewCoupon(ctx context.Context, req *PreviewCouponRequest) (*PreviewCouponResponse, error) {
	ctx, span := s.tracer.Start(ctx, "service.PreviewCoupon")
	defer span.End()

	coupon, err := s.couponRepo.FindByCode(ctx, req.CouponCode)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if coupon.Status != domain.StatusUnused {
		return &PreviewCouponResponse{Eligible: false, Message: "coupon is not available"}, nil
	}
	if !coupon.ExpiresAt.IsZero() && time.Now().After(coupon.ExpiresAt) {
		return &PreviewCouponResponse{Eligible: false, Message: "coupon is expired"}, nil
	}

	fact := toDomainFact(req.Fact)
	eligible, err := coupon.Template.Eligible(s.engine, fact)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !eligible {
		return &PreviewCouponResponse{Eligible: false, Message: "coupon is not applicable to this order"}, nil
	}

	discount, err := coupon.Template.Discount(fact.AmountCents)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &PreviewCouponResponse{Eligible: true, DiscountCents: discount}, nil
}
